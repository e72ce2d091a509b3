// Package orchestrator wires every layer analyzer, the correlation engine,
// and severity reassessment into one pipeline run (spec §9's top-level
// "Run(changeSet) -> Report" operation).
//
// Grounded on stricture's internal/engine concurrent-rule-fan-out shape
// (each rule runs independently against the same input, results merged),
// generalized here from rules over one file to analyzers over a whole
// change-set, with the code analyzer's side-channel Result feeding the
// correlation engine's code strategy.
package orchestrator

import (
	"context"
	"sync"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/analyzer/code"
	"github.com/brennhill/driftlens/internal/analyzer/configscan"
	"github.com/brennhill/driftlens/internal/analyzer/iac"
	"github.com/brennhill/driftlens/internal/analyzer/openapi"
	"github.com/brennhill/driftlens/internal/analyzer/sqlmig"
	"github.com/brennhill/driftlens/internal/artifact"
	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/correlate"
	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/report"
	"github.com/brennhill/driftlens/internal/risk"
	"github.com/brennhill/driftlens/internal/severity"
	"github.com/brennhill/driftlens/internal/telemetry"
)

// Orchestrator runs the full pipeline for a single change-set.
type Orchestrator struct {
	Fetcher fetch.ContentFetcher
	Config  *config.Config
	Log     telemetry.Logger
	Metrics *telemetry.Metrics

	registry    *analyzer.Registry
	codeAnalyzer *code.Analyzer
}

// New builds an Orchestrator over registry with the code analyzer appended;
// the built-in layer analyzers run only if the caller already registered
// them. When registry is nil, the built-in four layer analyzers plus the
// code analyzer are used.
func New(fetcher fetch.ContentFetcher, cfg *config.Config, log telemetry.Logger, metrics *telemetry.Metrics, registry *analyzer.Registry) *Orchestrator {
	if log == nil {
		log = telemetry.NewSimple()
	}
	codeAnalyzer := code.New()
	if registry == nil {
		registry = analyzer.NewRegistry(
			openapi.New(),
			sqlmig.New(),
			iac.New(),
			configscan.New(),
			codeAnalyzer,
		)
	} else {
		registry.Register(codeAnalyzer)
	}
	return &Orchestrator{
		Fetcher:      fetcher,
		Config:       cfg,
		Log:          log,
		Metrics:      metrics,
		registry:     registry,
		codeAnalyzer: codeAnalyzer,
	}
}

// defaultAnalyzerConfig builds the analyzer.Config every Run passes to
// every analyzer: fixed path globs and cost threshold, plus the configured
// vulnerable-package list. Orchestrator has no field for overriding these
// paths.
func defaultAnalyzerConfig(cfg *config.Config) analyzer.Config {
	return analyzer.Config{
		SQLGlob:            "**/*.sql",
		OpenAPIPath:        "openapi.yaml",
		TerraformPath:      "plan.json",
		CloudFormationGlob: "**/template.yaml",
		ConfigGlobs:        []string{"**/package.json", "**/requirements.txt", "**/*.config.yaml"},
		FeatureFlagGlob:    "**/flags.yaml",
		CostThresholdUSD:   500,
		VulnerablePackages: cfg.VulnerablePackages,
	}
}

// Run executes every registered analyzer concurrently over the change-set,
// expands and correlates the resulting findings, reassesses severity, and
// assembles the final Report.
func (o *Orchestrator) Run(ctx context.Context, cs model.ChangeSet) (model.Report, error) {
	if o.Fetcher == nil {
		return model.Report{}, model.ErrNoContentFetcher
	}
	if cs.BaseRef == "" && cs.HeadRef == "" {
		return model.Report{}, model.ErrChangeSetUnreadable
	}

	ac := analyzer.Context{
		ChangeSet: cs,
		Fetcher:   o.Fetcher,
		Log:       o.Log,
		Config:    defaultAnalyzerConfig(o.Config),
	}

	var (
		mu       sync.Mutex
		findings []model.DriftFinding
		wg       sync.WaitGroup
	)
	for _, a := range o.registry.All() {
		a := a
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := a.Analyze(ctx, ac)
			if err != nil {
				if o.Log != nil {
					o.Log.WithField("analyzer", a.Name()).Error("analyzer failed", err)
				}
				return
			}
			if len(out) == 0 {
				return
			}
			mu.Lock()
			findings = append(findings, out...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	expanded := artifact.Expand(findings)

	if o.Metrics != nil {
		o.Metrics.FilesAnalyzed.Add(float64(len(cs.Files)))
		for _, f := range expanded {
			o.Metrics.FindingsTotal.WithLabelValues(string(f.Type), string(f.Severity)).Inc()
		}
	}

	engine := correlate.New(o.Config, o.Log)
	correlations := engine.Correlate(expanded, o.codeAnalyzer.Result)

	if o.Metrics != nil {
		for _, c := range correlations {
			label := "strategy"
			if c.UserDefined {
				label = "userDefined"
			}
			o.Metrics.CorrelationsTotal.WithLabelValues(label).Inc()
		}
	}

	reassessed := severity.Reassess(expanded, correlations, o.Config.Cascade)

	// An operator-supplied overrideReason waives blocking for this run
	// (spec §4.1 applyOverride, §6 overrideReason): stamp every finding so
	// the report's summary.overrideApplied becomes reachable.
	if reason := o.Config.OverrideReason; reason != "" {
		for i := range reassessed {
			reassessed[i] = risk.ApplyOverride(reassessed[i], reason)
		}
	}

	return report.Build(reassessed, correlations), nil
}
