package configscan

import (
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"
)

// diffComposeServices implements spec §4.5's docker-compose top-level key
// diff under "services".
func diffComposeServices(base, head []byte) []string {
	baseServices := composeServiceNames(base)
	headServices := composeServiceNames(head)

	var changes []string
	for name := range baseServices {
		if !headServices[name] {
			changes = append(changes, "CONTAINER_REMOVED: "+name)
		}
	}
	for name := range headServices {
		if !baseServices[name] {
			changes = append(changes, "CONTAINER_ADDED: "+name)
		}
	}
	sort.Strings(changes)
	return changes
}

func composeServiceNames(content []byte) map[string]bool {
	out := map[string]bool{}
	var doc struct {
		Services map[string]interface{} `json:"services"`
	}
	if len(content) == 0 {
		return out
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return out
	}
	for name := range doc.Services {
		out[name] = true
	}
	return out
}

// diffFeatureFlags implements spec §4.5's boolean feature-flag diff: a flat
// key -> bool map compared between revisions.
func diffFeatureFlags(base, head []byte) []string {
	baseFlags := featureFlagMap(base)
	headFlags := featureFlagMap(head)

	var changes []string
	for name, b := range baseFlags {
		h, ok := headFlags[name]
		if !ok {
			changes = append(changes, fmt.Sprintf("FEATURE_FLAG_REMOVED: %s", name))
			continue
		}
		if b != h {
			changes = append(changes, fmt.Sprintf("FEATURE_FLAG_CHANGED: %s (%v -> %v)", name, b, h))
		}
	}
	for name := range headFlags {
		if _, ok := baseFlags[name]; !ok {
			changes = append(changes, fmt.Sprintf("FEATURE_FLAG_ADDED: %s", name))
		}
	}
	sort.Strings(changes)
	return changes
}

func featureFlagMap(content []byte) map[string]bool {
	out := map[string]bool{}
	if len(content) == 0 {
		return out
	}
	var flat map[string]interface{}
	if err := yaml.Unmarshal(content, &flat); err != nil {
		return out
	}
	for k, v := range flat {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}
