package iac

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// analyzeKubernetesManifest flags a fixed set of risky Kubernetes manifest
// shapes (spec §4.4). Parsed via sigs.k8s.io/yaml (YAML -> JSON -> generic
// map) rather than a hand-rolled line scan, since the manifest's structure
// (containers array, nested securityContext) needs real traversal.
func analyzeKubernetesManifest(content []byte) (changes []string, err error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	spec, _ := nestedMap(doc, "spec")
	if t, ok := stringField(spec, "type"); ok && t == "LoadBalancer" {
		changes = append(changes, "PROPERTY_MODIFIED: spec.type: LoadBalancer")
	}
	if replicas, ok := spec["replicas"]; ok {
		if n, ok := asNumber(replicas); ok && n == 0 {
			changes = append(changes, "PROPERTY_MODIFIED: spec.replicas: 0")
		}
	}

	template, _ := nestedMap(spec, "template")
	podSpec, _ := nestedMap(template, "spec")

	if hostNetwork, ok := podSpec["hostNetwork"]; ok {
		if b, ok := hostNetwork.(bool); ok && b {
			changes = append(changes, "PROPERTY_MODIFIED: spec.template.spec.hostNetwork: true")
		}
	}

	containers, _ := podSpec["containers"].([]interface{})
	for i, c := range containers {
		cm, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		if _, hasResources := cm["resources"]; !hasResources {
			changes = append(changes, fmt.Sprintf("PROPERTY_REMOVED: spec.template.spec.containers[%d].resources", i))
		}
		secCtx, _ := nestedMap(cm, "securityContext")
		if priv, ok := secCtx["privileged"]; ok {
			if b, ok := priv.(bool); ok && b {
				changes = append(changes, fmt.Sprintf("PROPERTY_MODIFIED: spec.template.spec.containers[%d].securityContext.privileged: true", i))
			}
		}
	}

	return changes, nil
}

func nestedMap(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	if m == nil {
		return map[string]interface{}{}, false
	}
	v, ok := m[key]
	if !ok {
		return map[string]interface{}{}, false
	}
	child, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}, false
	}
	return child, true
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
