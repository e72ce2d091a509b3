package configscan

import (
	"encoding/json"
	"fmt"
	"sort"
)

type manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	License         string            `json:"license"`
}

func parseManifest(data []byte) (*manifest, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func allDeps(m *manifest) map[string]string {
	out := map[string]string{}
	for k, v := range m.Dependencies {
		out[k] = v
	}
	for k, v := range m.DevDependencies {
		out[k] = v
	}
	return out
}

// diffManifests implements spec §4.5's package manifest diff: added,
// removed, version-changed dependencies, plus license-field changes and
// vulnerability matches against the head version of each added or
// version-changed dependency.
func diffManifests(base, head *manifest) (changes []string, configuredVuln bool) {
	baseDeps := map[string]string{}
	if base != nil {
		baseDeps = allDeps(base)
	}
	headDeps := map[string]string{}
	if head != nil {
		headDeps = allDeps(head)
	}

	names := unionStringKeys(baseDeps, headDeps)
	for _, name := range names {
		bv, inBase := baseDeps[name]
		hv, inHead := headDeps[name]
		switch {
		case inHead && !inBase:
			changes = append(changes, fmt.Sprintf("DEPENDENCY_ADDED: %s@%s", name, hv))
		case inBase && !inHead:
			changes = append(changes, fmt.Sprintf("DEPENDENCY_REMOVED: %s@%s", name, bv))
		case bv != hv:
			switch versionChangeKind(bv, hv) {
			case "major":
				changes = append(changes, fmt.Sprintf("MAJOR_VERSION_BUMP: %s (%s -> %s)", name, bv, hv))
			case "minor":
				changes = append(changes, fmt.Sprintf("MINOR_VERSION_BUMP: %s (%s -> %s)", name, bv, hv))
			case "patch":
				changes = append(changes, fmt.Sprintf("PATCH: %s (%s -> %s)", name, bv, hv))
			default:
				changes = append(changes, fmt.Sprintf("PATCH: %s (%s -> %s)", name, bv, hv))
			}
		}

		if inHead && (!inBase || bv != hv) {
			if vulnName, ok := matchVulnerable(name, hv); ok {
				changes = append(changes, "SECURITY_VULNERABILITY: "+vulnName)
				changes = append(changes, "SECURITY_RECOMMENDATION: run a full dependency audit tool for a complete report")
				configuredVuln = true
			}
		}
	}

	if base != nil && head != nil && base.License != head.License {
		changes = append(changes, fmt.Sprintf("LICENSE_CHANGE: %s -> %s", base.License, head.License))
	}

	return changes, configuredVuln
}

func unionStringKeys(a, b map[string]string) []string {
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
