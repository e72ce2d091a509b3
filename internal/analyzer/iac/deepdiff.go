// Package iac implements the infrastructure-as-code layer analyzer (spec
// §4.4): Terraform plan JSON, CloudFormation templates, HCL fallback
// detection, and Kubernetes manifests, sharing one deep-property-comparison
// algorithm.
//
// Grounded on the teacher's internal/lineage/diff.go tree-walking compare
// style (compareField's recursive descent + severity classification),
// generalized from a fixed lineage-field schema to an arbitrary JSON tree.
package iac

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PropertyChange is one leaf-level difference found by deepDiff.
type PropertyChange struct {
	ResourceID        string
	Path              string
	Kind              string // "modified", "added", "removed"
	Before, After      interface{}
	SecuritySensitive bool
}

var securitySensitivePath = regexp.MustCompile(`(?i)(security|cidr|ingress|egress|port|public|deletion|policy|role|permission)`)

// deepDiff walks before/after as JSON-decoded trees, recursing into
// objects, fingerprint-matching arrays of rule-shaped objects, and emitting
// a PropertyChange per scalar difference (spec §4.4).
func deepDiff(resourceID string, before, after interface{}) []PropertyChange {
	return deepDiffPath(resourceID, "", before, after)
}

func deepDiffPath(resourceID, path string, before, after interface{}) []PropertyChange {
	switch b := before.(type) {
	case map[string]interface{}:
		a, ok := after.(map[string]interface{})
		if !ok {
			return []PropertyChange{scalarChange(resourceID, path, before, after)}
		}
		return diffObjects(resourceID, path, b, a)
	case []interface{}:
		a, ok := after.([]interface{})
		if !ok {
			return []PropertyChange{scalarChange(resourceID, path, before, after)}
		}
		return diffArrays(resourceID, path, b, a)
	default:
		if !jsonEqual(before, after) {
			return []PropertyChange{scalarChange(resourceID, path, before, after)}
		}
		return nil
	}
}

func diffObjects(resourceID, path string, before, after map[string]interface{}) []PropertyChange {
	var out []PropertyChange
	keys := unionKeys(before, after)
	for _, k := range keys {
		childPath := k
		if path != "" {
			childPath = path + "." + k
		}
		bv, bok := before[k]
		av, aok := after[k]
		switch {
		case bok && !aok:
			out = append(out, markSensitive(resourceID, childPath, "removed", bv, nil))
		case !bok && aok:
			out = append(out, markSensitive(resourceID, childPath, "added", nil, av))
		default:
			out = append(out, deepDiffPath(resourceID, childPath, bv, av)...)
		}
	}
	return out
}

func unionKeys(a, b map[string]interface{}) []string {
	seen := map[string]bool{}
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// diffArrays applies fingerprint matching for rule-shaped objects
// (protocol+from_port+to_port) and falls back to index-wise comparison for
// everything else.
func diffArrays(resourceID, path string, before, after []interface{}) []PropertyChange {
	beforeRules, beforeOK := asRuleObjects(before)
	afterRules, afterOK := asRuleObjects(after)
	if beforeOK && afterOK {
		return diffRuleSets(resourceID, path, beforeRules, afterRules)
	}

	var out []PropertyChange
	n := len(before)
	if len(after) > n {
		n = len(after)
	}
	for i := 0; i < n; i++ {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case i >= len(after):
			out = append(out, markSensitive(resourceID, childPath, "removed", before[i], nil))
		case i >= len(before):
			out = append(out, markSensitive(resourceID, childPath, "added", nil, after[i]))
		default:
			out = append(out, deepDiffPath(resourceID, childPath, before[i], after[i])...)
		}
	}
	return out
}

type ruleObject struct {
	raw         map[string]interface{}
	matchFP     string
	fullFP      string
}

func asRuleObjects(items []interface{}) ([]ruleObject, bool) {
	var out []ruleObject
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			return nil, false
		}
		proto, okP := firstOf(m, "protocol", "Protocol", "IpProtocol")
		from, okF := firstOf(m, "from_port", "FromPort")
		to, okT := firstOf(m, "to_port", "ToPort")
		if !okP || !okF || !okT {
			return nil, false
		}
		matchFP := fmt.Sprintf("%v-%v-%v", proto, from, to)
		cidr := firstCIDR(m)
		out = append(out, ruleObject{raw: m, matchFP: matchFP, fullFP: matchFP + "|" + cidr})
	}
	return out, true
}

func firstOf(m map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func firstCIDR(m map[string]interface{}) string {
	for _, k := range []string{"cidr_blocks", "CidrIp", "CidrBlocks", "cidr_ip"} {
		if v, ok := m[k]; ok {
			if arr, ok := v.([]interface{}); ok && len(arr) > 0 {
				return fmt.Sprintf("%v", arr[0])
			}
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func diffRuleSets(resourceID, path string, before, after []ruleObject) []PropertyChange {
	beforeByFP := map[string]ruleObject{}
	for _, r := range before {
		beforeByFP[r.matchFP] = r
	}
	afterByFP := map[string]ruleObject{}
	for _, r := range after {
		afterByFP[r.matchFP] = r
	}

	var out []PropertyChange
	for fp, b := range beforeByFP {
		a, ok := afterByFP[fp]
		if !ok {
			out = append(out, markSensitive(resourceID, path+"["+fp+"]", "removed", b.raw, nil))
			continue
		}
		if b.fullFP == a.fullFP {
			continue
		}
		out = append(out, diffRuleProperties(resourceID, path, fp, b, a)...)
	}
	for fp, a := range afterByFP {
		if _, ok := beforeByFP[fp]; !ok {
			out = append(out, markSensitive(resourceID, path+"["+fp+"]", "added", nil, a.raw))
		}
	}
	return out
}

func diffRuleProperties(resourceID, path, fp string, before, after ruleObject) []PropertyChange {
	var out []PropertyChange
	beforeCIDR := firstCIDR(before.raw)
	afterCIDR := firstCIDR(after.raw)
	if beforeCIDR != afterCIDR {
		out = append(out, markSensitive(resourceID, path+"["+fp+"].cidr", "modified", beforeCIDR, afterCIDR))
	}
	beforeDesc, _ := firstOf(before.raw, "description", "Description")
	afterDesc, _ := firstOf(after.raw, "description", "Description")
	if fmt.Sprintf("%v", beforeDesc) != fmt.Sprintf("%v", afterDesc) {
		out = append(out, markSensitive(resourceID, path+"["+fp+"].description", "modified", beforeDesc, afterDesc))
	}
	if len(out) == 0 {
		out = append(out, markSensitive(resourceID, path+"["+fp+"]", "modified", "", "rule properties changed"))
	}
	return out
}

func scalarChange(resourceID, path string, before, after interface{}) PropertyChange {
	return markSensitive(resourceID, path, "modified", before, after)
}

func markSensitive(resourceID, path, kind string, before, after interface{}) PropertyChange {
	sensitive := securitySensitivePath.MatchString(path)
	if !sensitive {
		if s := fmt.Sprintf("%v", after); strings.Contains(s, "0.0.0.0/0") {
			sensitive = true
		}
	}
	return PropertyChange{ResourceID: resourceID, Path: path, Kind: kind, Before: before, After: after, SecuritySensitive: sensitive}
}

func jsonEqual(a, b interface{}) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}

// changeToken renders a PropertyChange to the spec's stable indicator
// token format.
func (c PropertyChange) changeToken() string {
	switch c.Kind {
	case "removed":
		return fmt.Sprintf("PROPERTY_REMOVED: %s.%s", c.ResourceID, c.Path)
	case "added":
		return fmt.Sprintf("PROPERTY_ADDED: %s.%s", c.ResourceID, c.Path)
	default:
		return fmt.Sprintf("PROPERTY_MODIFIED: %s.%s: %s -> %s", c.ResourceID, c.Path, jsonStr(c.Before), jsonStr(c.After))
	}
}

func jsonStr(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
