package iac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeTerraformPlanCIDROpenedToWorld(t *testing.T) {
	plan := &tfPlan{
		ResourceChanges: []tfResourceChange{
			{
				Address: "aws_security_group.web",
				Type:    "aws_security_group",
				Change: tfChange{
					Actions: []string{"update"},
					Before: map[string]interface{}{
						"ingress": []interface{}{
							map[string]interface{}{"protocol": "tcp", "from_port": float64(443), "to_port": float64(443), "cidr_blocks": []interface{}{"10.0.0.0/8"}},
						},
					},
					After: map[string]interface{}{
						"ingress": []interface{}{
							map[string]interface{}{"protocol": "tcp", "from_port": float64(443), "to_port": float64(443), "cidr_blocks": []interface{}{"0.0.0.0/0"}},
						},
					},
				},
			},
		},
	}

	changes, _, entities, _ := analyzeTerraformPlan(plan, 1000)
	require.Contains(t, entities, "aws_security_group.web")

	var found bool
	for _, c := range changes {
		if c == `PROPERTY_MODIFIED: aws_security_group.web.ingress[tcp-443-443].cidr: "10.0.0.0/8" -> "0.0.0.0/0"` {
			found = true
		}
	}
	require.True(t, found, "expected cidr property-modified token, got %v", changes)

	var hasSGChange bool
	for _, c := range changes {
		if c == "SECURITY_GROUP_CHANGE: aws_security_group.web" {
			hasSGChange = true
		}
	}
	require.True(t, hasSGChange)
}

func TestAnalyzeTerraformPlanResourceDeletion(t *testing.T) {
	plan := &tfPlan{
		ResourceChanges: []tfResourceChange{
			{Address: "aws_instance.old", Type: "aws_instance", Change: tfChange{Actions: []string{"delete"}}},
		},
	}
	changes, _, _, _ := analyzeTerraformPlan(plan, 1000)
	require.Contains(t, changes, "RESOURCE_DELETION: aws_instance.old")
}

func TestAnalyzeHCLFlagsOpenCIDR(t *testing.T) {
	changes := analyzeHCL(`resource "aws_security_group_rule" "r" {
  cidr_blocks = ["0.0.0.0/0"]
}`)
	require.Contains(t, changes, "PROPERTY_MODIFIED: cidr_blocks: opened to 0.0.0.0/0")
}

func TestAnalyzeKubernetesManifestPrivileged(t *testing.T) {
	manifest := []byte(`
apiVersion: apps/v1
kind: Deployment
spec:
  replicas: 0
  template:
    spec:
      hostNetwork: true
      containers:
        - name: app
          securityContext:
            privileged: true
`)
	changes, err := analyzeKubernetesManifest(manifest)
	require.NoError(t, err)
	require.Contains(t, changes, "PROPERTY_MODIFIED: spec.replicas: 0")
	require.Contains(t, changes, "PROPERTY_MODIFIED: spec.template.spec.hostNetwork: true")
	require.Contains(t, changes, "PROPERTY_MODIFIED: spec.template.spec.containers[0].securityContext.privileged: true")
}
