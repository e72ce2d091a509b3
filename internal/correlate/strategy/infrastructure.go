package strategy

import (
	"strings"

	"github.com/brennhill/driftlens/internal/model"
)

// Infrastructure correlates infra findings with api/configuration findings
// when the resource path/name contains API-infra keywords or shares a
// resource name (spec §4.7.3).
type Infrastructure struct {
	weight float64
}

func NewInfrastructure(weight float64) *Infrastructure { return &Infrastructure{weight: weight} }

func (s *Infrastructure) Name() string    { return "infrastructure" }
func (s *Infrastructure) Budget() Budget  { return BudgetLow }
func (s *Infrastructure) Weight() float64 { return s.weight }

var apiInfraKeywords = []string{"api", "gateway", "function", "lambda", "endpoint", "service"}

func (s *Infrastructure) Run(snap Snapshot) []Signal {
	var signals []Signal
	for i, infra := range snap.Findings {
		if infra.Type != model.TypeInfrastructure {
			continue
		}
		for _, resource := range infra.Entities {
			lower := strings.ToLower(resource)
			hasKeyword := containsAny(lower, apiInfraKeywords)

			for j, other := range snap.Findings {
				if i == j {
					continue
				}
				switch other.Type {
				case model.TypeAPI:
					if hasKeyword || sharesResourceName(lower, other) {
						signals = append(signals, Signal{
							Source: infra.ArtifactID, Target: other.ArtifactID,
							Relationship: "infra_hosts_api",
							Confidence:   clamp01(0.6 * s.weight),
							Evidence:     []model.EvidenceItem{{Reason: "resource " + resource + " looks API-related"}},
						})
					}
				case model.TypeConfiguration:
					if hasKeyword || sharesResourceName(lower, other) {
						signals = append(signals, Signal{
							Source: infra.ArtifactID, Target: other.ArtifactID,
							Relationship: "infra_affects_config",
							Confidence:   clamp01(0.5 * s.weight),
							Evidence:     []model.EvidenceItem{{Reason: "resource " + resource + " affects configuration"}},
						})
					}
				case model.TypeInfrastructure:
					if sharesResourceName(lower, other) {
						signals = append(signals, Signal{
							Source: infra.ArtifactID, Target: other.ArtifactID,
							Relationship: "resource_dependency",
							Confidence:   clamp01(0.55 * s.weight),
							Evidence:     []model.EvidenceItem{{Reason: "resources share a name fragment"}},
						})
					}
				}
			}
		}
	}
	return signals
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func sharesResourceName(resourceLower string, other model.DriftFinding) bool {
	for _, e := range other.Entities {
		if e == "" {
			continue
		}
		if strings.Contains(resourceLower, strings.ToLower(e)) {
			return true
		}
	}
	return false
}
