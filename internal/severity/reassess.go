// Package severity implements post-correlation severity reassessment (spec
// §4.8): findings that are strongly linked to other high-severity findings
// get cascaded upward, while the risk scorer's critical-security rail is
// re-enforced so correlation can never silently downgrade a critical
// finding.
//
// Grounded on stricture's internal/lineage/diff.go severity-ranking style —
// generalized here from a single diff's severity to a graph of findings
// linked by correlation strength.
package severity

import (
	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/risk"
)

type linkKind int

const (
	linkSoft linkKind = iota
	linkHard
)

type edge struct {
	neighbor    int
	kind        linkKind
	userDefined bool
}

// Reassess upgrades findings' severities based on their correlation
// neighborhood and returns a new slice (inputs are never mutated in place,
// matching DriftFinding's "mutated only by severity reassessment" contract
// — the mutation happens via value copies, not pointer aliasing).
func Reassess(findings []model.DriftFinding, correlations []model.Correlation, cfg config.CascadeConfig) []model.DriftFinding {
	out := make([]model.DriftFinding, len(findings))
	copy(out, findings)

	index := make(map[string]int, len(out))
	for i, f := range out {
		index[f.ArtifactID] = i
	}

	adjacency := make(map[int][]edge, len(out))
	for _, c := range correlations {
		si, sok := index[c.Source]
		ti, tok := index[c.Target]
		if !sok || !tok {
			continue
		}
		kind, ok := classifyLink(c, cfg)
		if !ok {
			continue
		}
		adjacency[si] = append(adjacency[si], edge{neighbor: ti, kind: kind, userDefined: c.UserDefined})
		adjacency[ti] = append(adjacency[ti], edge{neighbor: si, kind: kind, userDefined: c.UserDefined})
	}

	// Re-enforce the critical-security rail first so cascade counting below
	// sees each finding's final pre-cascade severity.
	for i := range out {
		if risk.IsCritical(out[i].Changes) && out[i].Severity != model.SeverityHigh {
			out[i].Severity = model.SeverityHigh
		}
	}

	for i := range out {
		edges := adjacency[i]
		var hard, soft, userDefined int
		hardNeighbors := make(map[int]bool, len(edges))
		upgradeTo := out[i].Severity

		for _, e := range edges {
			switch e.kind {
			case linkHard:
				hard++
				hardNeighbors[e.neighbor] = true
			case linkSoft:
				soft++
			}
			if e.userDefined {
				userDefined++
			}
		}
		// Cascade is the count of distinct other artifacts connected by a
		// hard link, severity-agnostic (spec §4.8 step 3).
		cascade := len(hardNeighbors)

		// Step 4: the three severity-keyed upgrade rules, first match wins.
		switch {
		case out[i].Severity == model.SeverityMedium && cascade >= 3:
			upgradeTo = model.SeverityHigh
		case out[i].Severity == model.SeverityLow && cascade >= 2:
			upgradeTo = model.SeverityMedium
		case out[i].Severity != model.SeverityHigh && hard >= 4:
			upgradeTo = model.SeverityHigh
		}

		// Step 5: user-defined correlations produce a stronger, count-based
		// single-tier bump, independent of step 4's result.
		switch {
		case out[i].Severity == model.SeverityLow && userDefined >= 1:
			if bumped := stepUp(out[i].Severity); bumped.Rank() > upgradeTo.Rank() {
				upgradeTo = bumped
			}
		case out[i].Severity == model.SeverityMedium && userDefined >= 2:
			if bumped := stepUp(out[i].Severity); bumped.Rank() > upgradeTo.Rank() {
				upgradeTo = bumped
			}
		}

		if upgradeTo.Rank() > out[i].Severity.Rank() {
			out[i].Severity = upgradeTo
		}

		out[i].CorrelationImpact = &model.CorrelationImpact{
			Hard:         hard,
			Soft:         soft,
			Cascade:      cascade,
			Correlations: len(edges),
		}
	}

	return out
}

// classifyLink categorizes a correlation's strength. The second return
// value is false when the correlation is too weak to count as a link at
// all (below the soft threshold and not user-defined).
func classifyLink(c model.Correlation, cfg config.CascadeConfig) (linkKind, bool) {
	if c.UserDefined || c.FinalScore >= cfg.HardLinkThreshold {
		return linkHard, true
	}
	if c.FinalScore >= cfg.SoftLinkThreshold {
		return linkSoft, true
	}
	return linkSoft, false
}

// stepUp raises a severity by exactly one tier, capped at high.
func stepUp(s model.Severity) model.Severity {
	switch s {
	case model.SeverityLow:
		return model.SeverityMedium
	case model.SeverityMedium:
		return model.SeverityHigh
	default:
		return model.SeverityHigh
	}
}
