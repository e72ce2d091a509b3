package iac

import (
	"encoding/json"
	"fmt"
	"sort"
)

type cfTemplate struct {
	Resources map[string]cfResource `json:"Resources"`
}

type cfResource struct {
	Type           string                 `json:"Type"`
	DeletionPolicy string                 `json:"DeletionPolicy"`
	Properties     map[string]interface{} `json:"Properties"`
}

func parseCloudFormation(data []byte) (*cfTemplate, error) {
	var t cfTemplate
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// analyzeCloudFormation diffs two templates by logical ID (spec §4.4).
func analyzeCloudFormation(base, head *cfTemplate, costThreshold float64) (changes, reasoning, entities []string, costImpact string) {
	if base == nil {
		base = &cfTemplate{}
	}
	if head == nil {
		head = &cfTemplate{}
	}

	var createdTypes []string
	logicalIDs := unionResourceIDs(base.Resources, head.Resources)

	for _, id := range logicalIDs {
		b, inBase := base.Resources[id]
		h, inHead := head.Resources[id]
		entities = append(entities, id)

		switch {
		case inHead && !inBase:
			changes = append(changes, fmt.Sprintf("RESOURCE_ADDITION: %s", id))
			reasoning = append(reasoning, fmt.Sprintf("Resource %s was added", id))
			createdTypes = append(createdTypes, h.Type)
		case inBase && !inHead:
			changes = append(changes, fmt.Sprintf("RESOURCE_DELETION: %s", id))
			reasoning = append(reasoning, fmt.Sprintf("Resource %s was removed", id))
		default:
			if b.Type != h.Type {
				changes = append(changes, fmt.Sprintf("RESOURCE_TYPE_CHANGE: %s (%s -> %s)", id, b.Type, h.Type))
			}
			if b.DeletionPolicy != h.DeletionPolicy {
				changes = append(changes, fmt.Sprintf("DELETION_POLICY_CHANGE: %s (%s -> %s)", id, b.DeletionPolicy, h.DeletionPolicy))
			}
			props := deepDiff(id, toIface(b.Properties), toIface(h.Properties))
			if len(props) > 0 && isSecurityGroup(h.Type) {
				changes = append(changes, fmt.Sprintf("SECURITY_GROUP_CHANGE: %s", id))
			}
			for _, p := range props {
				changes = append(changes, p.changeToken())
			}
		}
	}

	if len(createdTypes) > 0 {
		total, over := estimateCost(createdTypes, costThreshold)
		if over {
			costImpact = fmt.Sprintf("$%.0f/month", total)
			changes = append(changes, fmt.Sprintf("COST_INCREASE: Estimated $%.0f/month", total))
		}
	}

	sort.Strings(entities)
	return dedupe(changes), reasoning, dedupe(entities), costImpact
}

func unionResourceIDs(a, b map[string]cfResource) []string {
	seen := map[string]bool{}
	var ids []string
	for id := range a {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for id := range b {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func toIface(m map[string]interface{}) interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
