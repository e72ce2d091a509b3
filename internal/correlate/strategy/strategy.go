// Package strategy defines the correlation-strategy interface and its six
// built-in implementations (spec §4.7, §9: "strategies are polymorphic over
// {name, enabled, budget, weight, run(snapshot) -> []Signal}").
package strategy

import (
	"github.com/brennhill/driftlens/internal/analyzer/code"
	"github.com/brennhill/driftlens/internal/model"
)

// Budget bounds how broadly a strategy may search for candidate pairs.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// Signal is one strategy's observation about a single pair of findings.
type Signal struct {
	Source       string
	Target       string
	Relationship string
	Confidence   float64
	Evidence     []model.EvidenceItem
}

// Snapshot is the read-only view of expanded findings (and the code
// analyzer's side-channel result) every strategy runs against. Strategies
// never mutate it (spec §5: "correlation strategies receive read-only
// snapshots of the expanded findings").
type Snapshot struct {
	Findings []model.DriftFinding
	Code     *code.Result
}

// Strategy is the capability every correlation strategy implements.
type Strategy interface {
	Name() string
	Budget() Budget
	Weight() float64
	Run(snap Snapshot) []Signal
}

// Pair is an unordered candidate pair of findings by index into
// Snapshot.Findings. None of the built-in strategies uses it.
type Pair struct {
	A, B int
}
