package iac

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type tfPlan struct {
	ResourceChanges []tfResourceChange `json:"resource_changes"`
}

type tfResourceChange struct {
	Address string   `json:"address"`
	Type    string   `json:"type"`
	Change  tfChange `json:"change"`
}

type tfChange struct {
	Actions []string    `json:"actions"`
	Before  interface{} `json:"before"`
	After   interface{} `json:"after"`
}

func parseTerraformPlan(data []byte) (*tfPlan, error) {
	var p tfPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// analyzeTerraformPlan implements spec §4.4's Terraform plan pass: resource
// presence diff plus deep property comparison for updated resources.
func analyzeTerraformPlan(plan *tfPlan, costThreshold float64) (changes []string, reasoning []string, entities []string, costImpact string) {
	var createdTypes []string

	for _, rc := range plan.ResourceChanges {
		hasCreate := containsAction(rc.Change.Actions, "create")
		hasDelete := containsAction(rc.Change.Actions, "delete")
		hasUpdate := containsAction(rc.Change.Actions, "update") || hasActionLike(rc.Change.Actions, "modify")

		entities = append(entities, rc.Address)

		switch {
		case hasCreate && !hasDelete:
			changes = append(changes, fmt.Sprintf("RESOURCE_ADDITION: %s", rc.Address))
			reasoning = append(reasoning, fmt.Sprintf("Resource %s will be created", rc.Address))
			createdTypes = append(createdTypes, rc.Type)
			if isSecurityGroup(rc.Type) {
				changes = append(changes, fmt.Sprintf("SECURITY_GROUP_ADDITION: %s", rc.Address))
			}
		case hasDelete && !hasCreate:
			changes = append(changes, fmt.Sprintf("RESOURCE_DELETION: %s", rc.Address))
			reasoning = append(reasoning, fmt.Sprintf("Resource %s will be deleted", rc.Address))
			if isSecurityGroup(rc.Type) {
				changes = append(changes, fmt.Sprintf("SECURITY_GROUP_DELETION: %s", rc.Address))
			}
		case hasUpdate:
			props := deepDiff(rc.Address, rc.Change.Before, rc.Change.After)
			if len(props) > 0 && isSecurityGroup(rc.Type) {
				changes = append(changes, fmt.Sprintf("SECURITY_GROUP_CHANGE: %s", rc.Address))
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

func containsAction(actions []string, target string) bool {
	for _, a := range actions {
		if a == target {
			return true
		}
	}
	return false
}

func hasActionLike(actions []string, needle string) bool {
	for _, a := range actions {
		if strings.Contains(a, needle) {
			return true
		}
	}
	return false
}

func isSecurityGroup(resourceType string) bool {
	t := strings.ToLower(resourceType)
	return strings.Contains(t, "security_group") || strings.Contains(t, "securitygroup")
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
