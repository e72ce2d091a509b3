package strategy

import (
	"strings"

	"github.com/brennhill/driftlens/internal/model"
)

// Operation aligns REST verbs with DB operations (spec §4.7.2): GET/SELECT,
// POST/INSERT, PUT|PATCH/UPDATE, DELETE/DELETE.
type Operation struct {
	weight float64
}

func NewOperation(weight float64) *Operation { return &Operation{weight: weight} }

func (o *Operation) Name() string    { return "operation" }
func (o *Operation) Budget() Budget  { return BudgetLow }
func (o *Operation) Weight() float64 { return o.weight }

var verbAlignment = map[string]string{
	"GET":    "SELECT",
	"POST":   "INSERT",
	"PUT":    "UPDATE",
	"PATCH":  "UPDATE",
	"DELETE": "DELETE",
}

func (o *Operation) Run(snap Snapshot) []Signal {
	var signals []Signal
	for i, a := range snap.Findings {
		if a.Type != model.TypeAPI {
			continue
		}
		verb := restVerb(a.Endpoints)
		if verb == "" {
			continue
		}
		expectedOp := verbAlignment[verb]
		for j, b := range snap.Findings {
			if i == j || b.Type != model.TypeDatabase {
				continue
			}
			if !dbOpPresent(b, expectedOp) {
				continue
			}
			signals = append(signals, Signal{
				Source:       a.ArtifactID,
				Target:       b.ArtifactID,
				Relationship: "operation_alignment",
				Confidence:   clamp01(0.5 * o.weight),
				Evidence: []model.EvidenceItem{{
					Reason: verb + " aligns with " + expectedOp,
				}},
			})
		}
	}
	return signals
}

func restVerb(endpoints []string) string {
	for _, ep := range endpoints {
		parts := strings.SplitN(ep, ":", 2)
		if len(parts) == 2 {
			return strings.ToUpper(parts[0])
		}
	}
	return ""
}

func dbOpPresent(f model.DriftFinding, op string) bool {
	for _, c := range f.Changes {
		if strings.Contains(strings.ToUpper(c), op) {
			return true
		}
	}
	return false
}
