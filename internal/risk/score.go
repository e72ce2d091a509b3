// score.go — the centralized risk scoring engine (spec §4.1).
//
// Grounded on the teacher's internal/lineage/diff.go severity-ranking and
// classification style (compareField's per-indicator severity assignment,
// severityRank for ordering), generalized from a single producer/consumer
// field diff into substring-indicator scanning over an arbitrary change
// list.
package risk

import (
	"regexp"
	"strings"
	"time"

	"github.com/brennhill/driftlens/internal/model"
)

var (
	highPatternRe   = compileAll(highPatterns)
	mediumPatternRe = compileAll(mediumPatterns)
)

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// Result is the outcome of scoring a change list.
type Result struct {
	Severity  model.Severity
	Reasoning []string
	Override  *model.OverrideInfo
}

// ScoreChanges scans changes for indicators from the high/medium tables and
// returns the highest matching tier. kind is currently unused by the
// matching rules themselves (every tier's indicators apply uniformly across
// finding types) but is accepted to let callers attribute reasoning to the
// layer that produced the changes.
func ScoreChanges(changes []string, kind string) Result {
	if len(changes) == 0 {
		return Result{Severity: model.SeverityLow}
	}

	var reasoning []string
	highHit := false
	mediumHit := false

	for _, change := range changes {
		for _, ind := range highIndicators {
			if containsFold(change, ind) {
				highHit = true
				reasoning = append(reasoning, reasonFor(kind, change))
			}
		}
		for _, re := range highPatternRe {
			if re.MatchString(change) {
				highHit = true
				reasoning = append(reasoning, reasonFor(kind, change))
			}
		}
		for _, ind := range mediumIndicators {
			if containsFold(change, ind) {
				mediumHit = true
				reasoning = append(reasoning, reasonFor(kind, change))
			}
		}
		for _, re := range mediumPatternRe {
			if re.MatchString(change) {
				mediumHit = true
				reasoning = append(reasoning, reasonFor(kind, change))
			}
		}
	}

	switch {
	case highHit:
		return Result{Severity: model.SeverityHigh, Reasoning: dedupe(reasoning)}
	case mediumHit:
		return Result{Severity: model.SeverityMedium, Reasoning: dedupe(reasoning)}
	default:
		return Result{Severity: model.SeverityLow}
	}
}

// reasonFor renders a human-readable justification for one matched change.
// kind (the layer name) is included when known so reasoning reads well once
// findings from different layers are merged into one report.
func reasonFor(kind, change string) string {
	change = strings.TrimSpace(change)
	if kind == "" {
		return change
	}
	return kind + ": " + change
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

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ApplyOverride attaches an override record to a finding and sets
// allowMerge semantics via the returned finding's Override field. An
// empty/absent reason is a no-op: the original finding is returned
// unchanged (spec §4.1).
func ApplyOverride(f model.DriftFinding, reason string) model.DriftFinding {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return f
	}
	out := f
	out.Override = &model.OverrideInfo{
		Applied:          true,
		Reason:           reason,
		OriginalSeverity: f.Severity,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
	return out
}

// IsCritical reports whether a finding's change indicators match the
// critical-security safety-rail set. A critical finding's severity cannot
// be downgraded by correlation reassessment, and is forced to high if it
// isn't already (spec §4.1, §4.8).
func IsCritical(changes []string) bool {
	for _, change := range changes {
		for _, ind := range criticalIndicators {
			if containsFold(change, ind) {
				return true
			}
		}
	}
	return false
}
