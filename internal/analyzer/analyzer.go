// Package analyzer defines the capability interface every layer analyzer
// implements (spec §9: "polymorphism over analyzers is expressed as a
// capability set"), plus a small registry the orchestrator uses without
// knowing about any concrete analyzer type.
//
// Grounded on the teacher's pkg/rule.Definition + internal/engine registry
// shape: a name, a predicate over inputs, and a single entry point, matched
// to this domain's {name, canHandle(file), analyze(ctx)} capability set.
package analyzer

import (
	"context"

	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/telemetry"
)

// Context carries everything an analyzer needs to examine one change-set:
// the fetcher for reading file content, the change-set itself, and a
// logger scoped to the analyzer's name.
type Context struct {
	ChangeSet model.ChangeSet
	Fetcher   fetch.ContentFetcher
	Log       telemetry.Logger
	Config    Config
}

// Config is the subset of run configuration every analyzer may consult.
// Concrete analyzers embed or read the fields relevant to them; driftlens
// passes the same Config value to every analyzer so plugin-authored
// analyzers can read it too.
type Config struct {
	SQLGlob            string
	OpenAPIPath        string
	TerraformPath      string
	CloudFormationGlob string
	ConfigGlobs        []string
	FeatureFlagGlob    string
	CostThresholdUSD   float64
	VulnerablePackages []string
}

// Analyzer is the capability every layer analyzer implements.
type Analyzer interface {
	// Name identifies the analyzer in logs and metrics.
	Name() string
	// CanHandle reports whether this analyzer is interested in f at all,
	// used as a cheap pre-filter before the full change-set is handed to
	// Analyze.
	CanHandle(f model.ChangedFile) bool
	// Analyze examines ctx.ChangeSet (filtered by CanHandle) and returns
	// the findings it produces. A per-file parse failure is not returned
	// as an error — it is logged and that file is skipped (spec §4.9).
	Analyze(ctx context.Context, ac Context) ([]model.DriftFinding, error)
}

// Registry holds the set of analyzers the orchestrator fans work out to.
type Registry struct {
	analyzers []Analyzer
}

// NewRegistry builds a Registry from the given analyzers, in the order
// they should run (order doesn't affect correctness — analyzer outputs are
// order-independent per spec §5 — but it does make logs readable).
func NewRegistry(analyzers ...Analyzer) *Registry {
	return &Registry{analyzers: analyzers}
}

// All returns every registered analyzer.
func (r *Registry) All() []Analyzer {
	return r.analyzers
}

// Register adds an analyzer at runtime, used by the plugin loader to
// extend the built-in set (SPEC_FULL §3.1).
func (r *Registry) Register(a Analyzer) {
	r.analyzers = append(r.analyzers, a)
}
