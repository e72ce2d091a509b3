package strategy

import "path/filepath"

// Temporal correlates any two findings whose files share a directory at a
// fixed low confidence. Disabled by default (spec §4.7.5) — the engine
// gates on the per-strategy Enabled flag from configuration, not here.
type Temporal struct {
	weight float64
}

func NewTemporal(weight float64) *Temporal { return &Temporal{weight: weight} }

func (t *Temporal) Name() string    { return "temporal" }
func (t *Temporal) Budget() Budget  { return BudgetLow }
func (t *Temporal) Weight() float64 { return t.weight }

const temporalFixedConfidence = 0.25

func (t *Temporal) Run(snap Snapshot) []Signal {
	var signals []Signal
	for i, a := range snap.Findings {
		for j, b := range snap.Findings {
			if i >= j {
				continue
			}
			if filepath.Dir(a.File) != filepath.Dir(b.File) || filepath.Dir(a.File) == "." {
				continue
			}
			signals = append(signals, Signal{
				Source: a.ArtifactID, Target: b.ArtifactID,
				Relationship: "temporal_correlation",
				Confidence:   clamp01(temporalFixedConfidence * t.weight),
			})
		}
	}
	return signals
}
