package strategy

import (
	"strings"

	"github.com/brennhill/driftlens/internal/artifact"
	"github.com/brennhill/driftlens/internal/model"
)

// Entity matches api-endpoint path segments against db-table names through
// artifact.NormalizeEntityName's variation set, falling back to Levenshtein
// similarity (spec §4.7.1).
type Entity struct {
	weight float64
}

func NewEntity(weight float64) *Entity { return &Entity{weight: weight} }

func (e *Entity) Name() string    { return "entity" }
func (e *Entity) Budget() Budget  { return BudgetLow }
func (e *Entity) Weight() float64 { return e.weight }

func (e *Entity) Run(snap Snapshot) []Signal {
	var signals []Signal
	for i, a := range snap.Findings {
		if a.Type != model.TypeAPI {
			continue
		}
		for j, b := range snap.Findings {
			if i == j || b.Type != model.TypeDatabase {
				continue
			}
			best := 0.0
			var bestTable string
			for _, endpoint := range a.Endpoints {
				for _, segment := range pathSegments(endpoint) {
					for _, table := range b.Entities {
						score := bestSimilarity(segment, table)
						if score > best {
							best = score
							bestTable = table
						}
					}
				}
			}
			if best < 0.7 {
				continue
			}
			signals = append(signals, Signal{
				Source:       a.ArtifactID,
				Target:       b.ArtifactID,
				Relationship: "api_uses_table",
				Confidence:   clamp01(best * e.weight),
				Evidence: []model.EvidenceItem{{
					Reason: "endpoint path segment matches table name " + bestTable,
					File:   a.File,
				}},
			})
		}
	}
	return signals
}

func pathSegments(endpoint string) []string {
	parts := strings.SplitN(endpoint, ":", 2)
	path := endpoint
	if len(parts) == 2 {
		path = parts[1]
	}
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" || strings.HasPrefix(seg, "{") || strings.HasPrefix(seg, ":") {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

// bestSimilarity compares a and b across every normalized variation of
// each, returning the best similarity found (exact match after
// normalization short-circuits to 1.0).
func bestSimilarity(a, b string) float64 {
	aVariants := artifact.NormalizeEntityName(a)
	bVariants := artifact.NormalizeEntityName(b)
	best := 0.0
	for _, av := range aVariants {
		for _, bv := range bVariants {
			if av == bv {
				return 1.0
			}
			s := levenshteinSimilarity(av, bv)
			if s > best {
				best = s
			}
		}
	}
	return best
}

func levenshteinSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	dist := levenshtein(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
