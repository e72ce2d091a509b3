package severity

import (
	"testing"

	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/stretchr/testify/require"
)

func cascadeCfg() config.CascadeConfig {
	return config.CascadeConfig{HardLinkThreshold: 0.75, SoftLinkThreshold: 0.45}
}

func TestReassessCascadeUpgradesLowToMedium(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityLow},
		{ArtifactID: "b", Severity: model.SeverityHigh},
		{ArtifactID: "c", Severity: model.SeverityHigh},
	}
	corrs := []model.Correlation{
		{Source: "a", Target: "b", FinalScore: 0.9},
		{Source: "a", Target: "c", FinalScore: 0.85},
	}
	out := Reassess(findings, corrs, cascadeCfg())
	require.Equal(t, model.SeverityMedium, out[0].Severity)
	require.Equal(t, 2, out[0].CorrelationImpact.Hard)
	require.Equal(t, 2, out[0].CorrelationImpact.Cascade)
}

func TestReassessCriticalFindingForcedHigh(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityLow, Changes: []string{"DROP TABLE: users"}},
	}
	out := Reassess(findings, nil, cascadeCfg())
	require.Equal(t, model.SeverityHigh, out[0].Severity)
}

func TestReassessUserDefinedLinkBumpsOneLevelFromLow(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityLow},
		{ArtifactID: "b", Severity: model.SeverityHigh},
	}
	corrs := []model.Correlation{
		{Source: "a", Target: "b", FinalScore: 1.0, UserDefined: true},
	}
	out := Reassess(findings, corrs, cascadeCfg())
	require.Equal(t, model.SeverityMedium, out[0].Severity)
}

func TestReassessTwoUserDefinedLinksBumpOneLevelFromMedium(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityMedium},
		{ArtifactID: "b", Severity: model.SeverityHigh},
		{ArtifactID: "c", Severity: model.SeverityHigh},
	}
	corrs := []model.Correlation{
		{Source: "a", Target: "b", FinalScore: 1.0, UserDefined: true},
		{Source: "a", Target: "c", FinalScore: 1.0, UserDefined: true},
	}
	out := Reassess(findings, corrs, cascadeCfg())
	require.Equal(t, model.SeverityHigh, out[0].Severity)
}

func TestReassessSingleUserDefinedLinkDoesNotBumpMediumToHigh(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityMedium},
		{ArtifactID: "b", Severity: model.SeverityHigh},
	}
	corrs := []model.Correlation{
		{Source: "a", Target: "b", FinalScore: 1.0, UserDefined: true},
	}
	out := Reassess(findings, corrs, cascadeCfg())
	require.Equal(t, model.SeverityMedium, out[0].Severity)
}

// Four hard links to the same neighbor keep cascade (distinct endpoints)
// below the cascade-based thresholds, isolating the "≥ 4 hard links"
// upgrade rule from the cascade-count rules.
func TestReassessFourHardLinksToOneNeighborUpgradesToHigh(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityLow},
		{ArtifactID: "b", Severity: model.SeverityLow},
	}
	corrs := []model.Correlation{
		{Source: "a", Target: "b", Relationship: "r1", FinalScore: 0.9},
		{Source: "a", Target: "b", Relationship: "r2", FinalScore: 0.9},
		{Source: "a", Target: "b", Relationship: "r3", FinalScore: 0.9},
		{Source: "a", Target: "b", Relationship: "r4", FinalScore: 0.9},
	}
	out := Reassess(findings, corrs, cascadeCfg())
	require.Equal(t, model.SeverityHigh, out[0].Severity)
	require.Equal(t, 4, out[0].CorrelationImpact.Hard)
	require.Equal(t, 1, out[0].CorrelationImpact.Cascade)
}

func TestReassessWeakCorrelationDoesNotCount(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityLow},
		{ArtifactID: "b", Severity: model.SeverityHigh},
	}
	corrs := []model.Correlation{
		{Source: "a", Target: "b", FinalScore: 0.1},
	}
	out := Reassess(findings, corrs, cascadeCfg())
	require.Equal(t, model.SeverityLow, out[0].Severity)
	require.Equal(t, 0, out[0].CorrelationImpact.Correlations)
}

func TestReassessNeverDowngrades(t *testing.T) {
	findings := []model.DriftFinding{
		{ArtifactID: "a", Severity: model.SeverityHigh},
	}
	out := Reassess(findings, nil, cascadeCfg())
	require.Equal(t, model.SeverityHigh, out[0].Severity)
}
