package strategy

import (
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer/code"
	"github.com/brennhill/driftlens/internal/artifact"
	"github.com/brennhill/driftlens/internal/model"
)

// Code correlates API findings with database findings through the code
// analyzer's handler/DB-ref detail and call graph (spec §4.7.6). Unlike the
// other strategies it does not read Snapshot.Findings for its own layer's
// detail — api_uses_table evidence comes straight from Snapshot.Code.
type Code struct {
	weight float64
}

func NewCode(weight float64) *Code { return &Code{weight: weight} }

func (c *Code) Name() string    { return "code" }
func (c *Code) Budget() Budget  { return BudgetMedium }
func (c *Code) Weight() float64 { return c.weight }

const (
	confidenceSameFunction = 0.90
	confidenceOneHop       = 0.80
	confidenceTwoHop       = 0.70
	ormInferredPenalty     = 0.05
	codeGraphDepth         = 2
)

func (c *Code) Run(snap Snapshot) []Signal {
	if snap.Code == nil {
		return nil
	}
	var signals []Signal
	for i, api := range snap.Findings {
		if api.Type != model.TypeAPI {
			continue
		}
		handler := matchingHandler(snap.Code.Handlers, api)
		if handler == nil {
			continue
		}
		start := code.SymbolKey(handler.File, handler.Symbol)
		reach := snap.Code.Graph.ReachableFrom(start, codeGraphDepth)

		for j, db := range snap.Findings {
			if i == j || db.Type != model.TypeDatabase {
				continue
			}
			ref := matchingDBRef(snap.Code.DBRefs, db)
			if ref == nil {
				continue
			}
			target := code.SymbolKey(ref.File, ref.Symbol)

			var confidence float64
			switch {
			case target == start:
				confidence = confidenceSameFunction
			default:
				hops, reached := reach[target]
				if !reached {
					continue
				}
				switch hops {
				case 1:
					confidence = confidenceOneHop
				case 2:
					confidence = confidenceTwoHop
				default:
					continue
				}
			}
			if ref.ORM != "raw" && ref.ORM != "" {
				confidence -= ormInferredPenalty
			}
			confidence = clamp01(confidence * c.weight)

			signals = append(signals, Signal{
				Source:       api.ArtifactID,
				Target:       db.ArtifactID,
				Relationship: "api_uses_table",
				Confidence:   confidence,
				Evidence: []model.EvidenceItem{{
					Reason: "handler " + handler.Symbol + " calls " + ref.ORM + " against table " + ref.Table,
					File:   ref.File,
					Line:   ref.Line,
				}},
			})
		}
	}
	return signals
}

// matchingHandler finds the detected route whose method:path matches one of
// the API finding's endpoints.
func matchingHandler(handlers []code.Handler, f model.DriftFinding) *code.Handler {
	for _, ep := range f.Endpoints {
		parts := strings.SplitN(ep, ":", 2)
		if len(parts) != 2 {
			continue
		}
		method, path := strings.ToUpper(parts[0]), parts[1]
		for i := range handlers {
			h := handlers[i]
			if strings.EqualFold(h.Method, method) && routesMatch(h.Path, path) {
				return &handlers[i]
			}
		}
	}
	return nil
}

// routesMatch compares two route templates ignoring parameter-name spelling
// (":id" vs "{id}" vs "{userId}" all match a single path segment).
func routesMatch(a, b string) bool {
	as := strings.Split(strings.Trim(a, "/"), "/")
	bs := strings.Split(strings.Trim(b, "/"), "/")
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if isParam(as[i]) || isParam(bs[i]) {
			continue
		}
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, ":") || strings.HasPrefix(segment, "{")
}

// matchingDBRef finds the detected DB reference whose table matches one of
// the database finding's entities, comparing the two names through
// artifact.NormalizeEntityName's variation sets (the same normalization the
// entity strategy uses).
func matchingDBRef(refs []code.DBRef, f model.DriftFinding) *code.DBRef {
	for _, table := range f.Entities {
		variants := map[string]bool{}
		for _, v := range artifact.NormalizeEntityName(table) {
			variants[v] = true
		}
		for i := range refs {
			for _, v := range artifact.NormalizeEntityName(refs[i].Table) {
				if variants[v] {
					return &refs[i]
				}
			}
		}
	}
	return nil
}
