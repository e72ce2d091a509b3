package iac

import (
	"regexp"
)

// hclIndicator is one regex-only fallback check (spec §4.4's "HCL
// (fallback)" pass) used when a .tf file isn't a plan JSON — raw HCL
// source, which this module does not parse structurally.
type hclIndicator struct {
	pattern *regexp.Regexp
	token   string
}

var largeInstanceTypes = regexp.MustCompile(`(?i)instance_type\s*=\s*"(m5\.(4|8|12|16|24)xlarge|c5\.(4|9|12|18|24)xlarge|r5\.(4|8|12|16|24)xlarge)"`)

var hclIndicators = []hclIndicator{
	{regexp.MustCompile(`(?i)cidr_blocks\s*=\s*\[\s*"0\.0\.0\.0/0"\s*\]`), "PROPERTY_MODIFIED: cidr_blocks: opened to 0.0.0.0/0"},
	{largeInstanceTypes, "COST_INCREASE: large instance type introduced"},
	{regexp.MustCompile(`(?i)deletion_protection\s*=\s*false`), "PROPERTY_MODIFIED: deletion_protection: false"},
	{regexp.MustCompile(`(?i)encrypted\s*=\s*false`), "PROPERTY_MODIFIED: encrypted: false"},
	{regexp.MustCompile(`(?i)publicly_accessible\s*=\s*true`), "PROPERTY_MODIFIED: publicly_accessible: true"},
	{regexp.MustCompile(`(?i)skip_final_snapshot\s*=\s*true`), "PROPERTY_MODIFIED: skip_final_snapshot: true"},
}

// analyzeHCL scans raw HCL source for a fixed set of risky property
// assignments. It has no notion of before/after — it flags anything
// present in the head revision, since raw HCL text diffing is out of
// scope for this fallback pass.
func analyzeHCL(content string) (changes []string) {
	for _, ind := range hclIndicators {
		if ind.pattern.MatchString(content) {
			changes = append(changes, ind.token)
		}
	}
	return changes
}
