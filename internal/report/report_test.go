package report

import (
	"testing"

	"github.com/brennhill/driftlens/internal/model"
	"github.com/stretchr/testify/require"
)

func TestBuildSortsFindingsDeterministically(t *testing.T) {
	findings := []model.DriftFinding{
		{Type: model.TypeDatabase, File: "b.sql", Severity: model.SeverityLow},
		{Type: model.TypeAPI, File: "a.yaml", Severity: model.SeverityHigh},
		{Type: model.TypeAPI, File: "a.yaml", Severity: model.SeverityHigh, Changes: []string{"API_DELETION"}},
	}
	r := Build(findings, nil)
	require.Equal(t, model.TypeAPI, r.Findings[0].Type)
	require.Equal(t, model.TypeAPI, r.Findings[1].Type)
	require.Equal(t, model.TypeDatabase, r.Findings[2].Type)
}

func TestBuildComputesSummary(t *testing.T) {
	findings := []model.DriftFinding{
		{Type: model.TypeAPI, Severity: model.SeverityHigh},
		{Type: model.TypeDatabase, Severity: model.SeverityMedium},
		{Type: model.TypeConfiguration, Severity: model.SeverityLow},
	}
	r := Build(findings, nil)
	require.Equal(t, 1, r.Summary.High)
	require.Equal(t, 1, r.Summary.Medium)
	require.Equal(t, 1, r.Summary.Low)
	require.True(t, r.Summary.Blocked)
}

func TestBuildNoHighFindingsNotBlocked(t *testing.T) {
	findings := []model.DriftFinding{{Type: model.TypeAPI, Severity: model.SeverityLow}}
	r := Build(findings, nil)
	require.False(t, r.Summary.Blocked)
}

func TestBuildOverrideAppliedUnblocksHighSeverity(t *testing.T) {
	findings := []model.DriftFinding{
		{
			Type:     model.TypeAPI,
			Severity: model.SeverityHigh,
			Override: &model.OverrideInfo{Applied: true, Reason: "incident waiver"},
		},
	}
	r := Build(findings, nil)
	require.Equal(t, 1, r.Summary.High)
	require.True(t, r.Summary.OverrideApplied)
	require.False(t, r.Summary.Blocked)
}

func TestTextRendererProducesOutput(t *testing.T) {
	findings := []model.DriftFinding{
		{Type: model.TypeAPI, File: "a.yaml", Severity: model.SeverityHigh, Reasoning: []string{"api: BREAKING_CHANGE"}},
	}
	r := Build(findings, []model.Correlation{
		{Source: "api:x", Target: "db:y", Relationship: "api_uses_table", FinalScore: 0.8},
	})
	renderer := &TextRenderer{NoColor: true}
	out, err := renderer.Render(r)
	require.NoError(t, err)
	require.Contains(t, out, "[HIGH]")
	require.Contains(t, out, "api_uses_table")
	require.Contains(t, out, "blocked=true")
}
