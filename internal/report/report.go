// Package report assembles the final typed Report from expanded, reassessed
// findings and correlations (spec §3, §6), and defines the rendering
// surface a caller plugs a formatter into.
//
// Grounded on stricture's internal/reporter.Reporter shape (Format()+
// Report(violations, summary)); renamed to ReportRenderer since "Reporter"
// would collide with the package name were this a method receiver.
package report

import (
	"sort"

	"github.com/brennhill/driftlens/internal/model"
)

// ReportRenderer is the output-format boundary: every CLI output format
// (text, JSON, SARIF-like) implements this against an assembled Report.
// driftlens ships a Text renderer; JSON is the model's own json tags
// marshaled directly by the caller, so no renderer implementation is
// needed for it.
type ReportRenderer interface {
	Format() string
	Render(r model.Report) (string, error)
}

// Build assembles the final Report: sorts findings deterministically
// (spec §5: "report ordering must be stable regardless of fan-out
// interleaving"), projects correlations to their report-facing shape, and
// computes the severity/override summary.
func Build(findings []model.DriftFinding, correlations []model.Correlation) model.Report {
	sorted := make([]model.DriftFinding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return findingSortKey(sorted[i]) < findingSortKey(sorted[j])
	})

	records := make([]model.CorrelationRecord, 0, len(correlations))
	for _, c := range correlations {
		records = append(records, model.CorrelationRecord{
			SourceID:     c.Source,
			TargetID:     c.Target,
			Relationship: c.Relationship,
			FinalScore:   c.FinalScore,
			Scores:       c.Scores,
			Evidence:     c.Evidence,
			UserDefined:  c.UserDefined,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SourceID != records[j].SourceID {
			return records[i].SourceID < records[j].SourceID
		}
		return records[i].TargetID < records[j].TargetID
	})

	return model.Report{
		Findings:     sorted,
		Correlations: records,
		Summary:      summarize(sorted),
	}
}

// findingSortKey orders findings by (type, file, first indicator) per spec
// §5's deterministic-ordering requirement.
func findingSortKey(f model.DriftFinding) string {
	first := ""
	if len(f.Changes) > 0 {
		first = f.Changes[0]
	}
	return string(f.Type) + "\x00" + f.File + "\x00" + first
}

func summarize(findings []model.DriftFinding) model.Summary {
	var s model.Summary
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityHigh:
			s.High++
		case model.SeverityMedium:
			s.Medium++
		default:
			s.Low++
		}
		if f.Override != nil && f.Override.Applied {
			s.OverrideApplied = true
		}
	}
	// spec §6: blocked = any(high) && !overrideApplied.
	s.Blocked = s.High > 0 && !s.OverrideApplied
	return s
}
