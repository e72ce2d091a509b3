package correlate

import (
	"sort"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer/code"
	"github.com/brennhill/driftlens/internal/artifact"
	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/correlate/strategy"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/telemetry"
)

const (
	candidateTopK     = 3
	candidateMinScore = 0.55
	candidateCap      = 100
)

// Engine runs every enabled correlation strategy over a snapshot of
// expanded findings, aggregates their signals into Correlations, and
// applies user-defined rules (spec §4.7, §5.5).
type Engine struct {
	strategies []strategy.Strategy
	cfg        *config.Config
	log        telemetry.Logger
}

// New builds an Engine from the full built-in strategy set, weighted per
// cfg.Strategies (spec §5.3).
func New(cfg *config.Config, log telemetry.Logger) *Engine {
	weight := func(name string) float64 {
		if sc, ok := cfg.Strategies[name]; ok {
			return sc.Weight
		}
		return 0
	}
	all := []strategy.Strategy{
		strategy.NewEntity(weight("entity")),
		strategy.NewOperation(weight("operation")),
		strategy.NewInfrastructure(weight("infrastructure")),
		strategy.NewDependency(weight("dependency")),
		strategy.NewTemporal(weight("temporal")),
		strategy.NewCode(weight("code")),
	}
	var enabled []strategy.Strategy
	for _, s := range all {
		if sc, ok := cfg.Strategies[s.Name()]; ok && sc.Enabled {
			enabled = append(enabled, s)
		}
	}
	return &Engine{strategies: enabled, cfg: cfg, log: log}
}

// Correlate produces the full set of Correlations for an expanded finding
// set, given the code analyzer's side-channel result.
func (e *Engine) Correlate(findings []model.DriftFinding, codeResult *code.Result) []model.Correlation {
	snap := strategy.Snapshot{Findings: findings, Code: codeResult}

	var lowSignals []strategy.Signal
	var higherSignals []strategy.Signal
	var lowStrategies, higherStrategies []strategy.Strategy
	for _, s := range e.strategies {
		if s.Budget() == strategy.BudgetLow {
			lowStrategies = append(lowStrategies, s)
		} else {
			higherStrategies = append(higherStrategies, s)
		}
	}

	for _, s := range lowStrategies {
		lowSignals = append(lowSignals, s.Run(snap)...)
	}

	candidates := selectCandidates(lowSignals)
	if len(higherStrategies) > 0 {
		filtered := filterSnapshot(snap, candidates)
		for _, s := range higherStrategies {
			higherSignals = append(higherSignals, s.Run(filtered)...)
		}
	}

	allSignals := append(lowSignals, higherSignals...)

	byPair := map[string][]strategy.Signal{}
	order := make([]string, 0)
	for _, sig := range allSignals {
		key := artifact.PairKey(sig.Source, sig.Target)
		if _, seen := byPair[key]; !seen {
			order = append(order, key)
		}
		byPair[key] = append(byPair[key], sig)
	}

	strategyWeights := map[string]float64{}
	for _, s := range e.strategies {
		strategyWeights[s.Name()] = s.Weight()
	}
	processedPairs := map[string]bool{}
	var correlations []model.Correlation

	ids := artifactIDs(findings)
	for _, key := range order {
		sigs := byPair[key]
		src, tgt := pairEndpoints(sigs[0])
		if rules := matchRules(e.cfg.UserRules, src, tgt); len(rules) > 0 {
			if c, handled := e.applyUserRules(rules, findings, sigs); handled {
				processedPairs[key] = true
				if c != nil {
					correlations = append(correlations, *c)
				}
				continue
			}
		}
		correlations = append(correlations, aggregate(sigs, strategyNameForEach(sigs, e.strategies), strategyWeights))
		processedPairs[key] = true
	}

	// Pure user-rule pairs that no strategy discovered on its own still need
	// to be materialized (spec §5.5: explicit rules always produce a
	// correlation, discovered or not).
	for _, rule := range e.cfg.UserRules {
		for i, a := range ids {
			for _, b := range ids[i+1:] {
				if !ruleMatch(rule.Source, a) || !ruleMatch(rule.Target, b) {
					if !ruleMatch(rule.Source, b) || !ruleMatch(rule.Target, a) {
						continue
					}
					a, b = b, a
				}
				key := artifact.PairKey(a, b)
				if processedPairs[key] {
					continue
				}
				processedPairs[key] = true
				if rule.Ignore {
					continue
				}
				correlations = append(correlations, explicitCorrelation(rule, a, b))
			}
		}
	}

	sort.Slice(correlations, func(i, j int) bool {
		return correlations[i].PairKey() < correlations[j].PairKey()
	})
	return correlations
}

// applyUserRules resolves every matching rule for a pair. An ignore rule
// suppresses the pair's strategy-discovered signals unless any involved
// finding carries a critical change token, in which case the rule is
// recorded as not applied and a warning logged (spec §5.5 safety rail).
// It returns handled=true whenever a rule decided the pair's fate.
func (e *Engine) applyUserRules(rules []resolvedRule, findings []model.DriftFinding, sigs []strategy.Signal) (*model.Correlation, bool) {
	for _, rr := range rules {
		if rr.rule.Ignore {
			if pairHasCriticalChange(findings, rr.a, rr.b) {
				if e.log != nil {
					e.log.WithField("source", rr.rule.Source).WithField("target", rr.rule.Target).
						Warn("user rule ignore suppressed by critical-change safety rail")
				}
				continue
			}
			return nil, true
		}
		c := explicitCorrelation(rr.rule, rr.a, rr.b)
		return &c, true
	}
	return nil, false
}

func explicitCorrelation(rule config.UserRule, a, b string) model.Correlation {
	score := rule.Score
	if score == 0 {
		score = 1.0
	}
	return model.Correlation{
		Source:       a,
		Target:       b,
		Relationship: rule.Relationship,
		Scores:       map[string]float64{"userDefined": score},
		Weights:      map[string]float64{"userDefined": 1.0},
		FinalScore:   1.0,
		Evidence:     []model.EvidenceItem{{Reason: "user-defined correlation rule"}},
		UserDefined:  true,
	}
}

func pairHasCriticalChange(findings []model.DriftFinding, a, b string) bool {
	for _, f := range findings {
		if f.ArtifactID != a && f.ArtifactID != b {
			continue
		}
		for _, c := range f.Changes {
			if criticalToken(c) {
				return true
			}
		}
	}
	return false
}

func pairEndpoints(s strategy.Signal) (string, string) {
	return s.Source, s.Target
}

func artifactIDs(findings []model.DriftFinding) []string {
	seen := map[string]bool{}
	var ids []string
	for _, f := range findings {
		if f.ArtifactID == "" || seen[f.ArtifactID] {
			continue
		}
		seen[f.ArtifactID] = true
		ids = append(ids, f.ArtifactID)
	}
	sort.Strings(ids)
	return ids
}

// strategyNameForEach infers which strategy produced each signal by
// matching its relationship label against the strategies known to emit it.
// Signals don't carry their originating strategy name directly since
// Strategy.Run returns bare Signal values; relationships are unique enough
// per strategy in practice (entity: api_uses_table without evidence from
// code, operation: operation_alignment, infrastructure: infra_*/resource_*,
// dependency: dependency_affects_*, temporal: temporal_correlation, code:
// api_uses_table with file+line evidence).
func strategyNameForEach(sigs []strategy.Signal, strategies []strategy.Strategy) []string {
	names := make([]string, len(sigs))
	for i, s := range sigs {
		names[i] = relationshipToStrategy(s)
	}
	return names
}

func relationshipToStrategy(s strategy.Signal) string {
	switch {
	case s.Relationship == "operation_alignment":
		return "operation"
	case strings.HasPrefix(s.Relationship, "infra_") || s.Relationship == "resource_dependency":
		return "infrastructure"
	case strings.HasPrefix(s.Relationship, "dependency_affects_"):
		return "dependency"
	case s.Relationship == "temporal_correlation":
		return "temporal"
	case s.Relationship == "api_uses_table":
		if len(s.Evidence) > 0 && s.Evidence[0].Line > 0 {
			return "code"
		}
		return "entity"
	default:
		return "unknown"
	}
}

// aggregate combines every signal for one pair into a single Correlation:
// max confidence per strategy, relationships joined as a sorted set,
// weighted-average final score, and deduplicated evidence (spec §5.4).
func aggregate(sigs []strategy.Signal, strategyNames []string, weights map[string]float64) model.Correlation {
	scores := map[string]float64{}
	relSet := map[string]bool{}
	var evidence []model.EvidenceItem
	seenEvidence := map[string]bool{}

	for i, sig := range sigs {
		name := strategyNames[i]
		if cur, ok := scores[name]; !ok || sig.Confidence > cur {
			scores[name] = sig.Confidence
		}
		relSet[sig.Relationship] = true
		for _, ev := range sig.Evidence {
			key := strings.ToLower(ev.Reason) + "|" + ev.File + "|" + itoa(ev.Line)
			if seenEvidence[key] {
				continue
			}
			seenEvidence[key] = true
			if len(evidence) < 5 {
				evidence = append(evidence, ev)
			}
		}
	}

	usedWeights := map[string]float64{}
	var weightedSum, weightTotal float64
	for name, score := range scores {
		w := weights[name]
		usedWeights[name] = w
		weightedSum += w * score
		weightTotal += w
	}
	finalScore := 0.0
	if weightTotal > 0 {
		finalScore = weightedSum / weightTotal
	}

	var rels []string
	for r := range relSet {
		rels = append(rels, r)
	}
	sort.Strings(rels)

	return model.Correlation{
		Source:       sigs[0].Source,
		Target:       sigs[0].Target,
		Relationship: strings.Join(rels, "|"),
		Scores:       scores,
		Weights:      usedWeights,
		FinalScore:   clamp01(finalScore),
		Evidence:     evidence,
	}
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	digits := []byte{}
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

type candidatePair struct {
	a, b string
}

// selectCandidates reduces the low-budget strategies' combined signals to
// the pairs worth spending medium/high-budget strategies on: the top-K
// highest-confidence targets per source above a minimum threshold, capped
// overall (spec §5.2).
func selectCandidates(signals []strategy.Signal) []candidatePair {
	bySource := map[string][]strategy.Signal{}
	for _, s := range signals {
		if s.Confidence < candidateMinScore {
			continue
		}
		bySource[s.Source] = append(bySource[s.Source], s)
	}

	var sources []string
	for src := range bySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	seen := map[string]bool{}
	var out []candidatePair
	for _, src := range sources {
		group := bySource[src]
		sort.Slice(group, func(i, j int) bool { return group[i].Confidence > group[j].Confidence })
		for i, s := range group {
			if i >= candidateTopK || len(out) >= candidateCap {
				break
			}
			key := artifact.PairKey(s.Source, s.Target)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, candidatePair{a: s.Source, b: s.Target})
		}
		if len(out) >= candidateCap {
			break
		}
	}
	return out
}

// filterSnapshot narrows a snapshot's findings to only those participating
// in at least one candidate pair, bounding medium/high-budget strategies'
// own cross-products to the pre-selected candidate set.
func filterSnapshot(snap strategy.Snapshot, candidates []candidatePair) strategy.Snapshot {
	keep := map[string]bool{}
	for _, c := range candidates {
		keep[c.a] = true
		keep[c.b] = true
	}
	if len(keep) == 0 {
		return strategy.Snapshot{Findings: nil, Code: snap.Code}
	}
	var filtered []model.DriftFinding
	for _, f := range snap.Findings {
		if keep[f.ArtifactID] {
			filtered = append(filtered, f)
		}
	}
	return strategy.Snapshot{Findings: filtered, Code: snap.Code}
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
