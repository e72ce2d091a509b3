package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a run-scoped set of Prometheus collectors. Registered against a
// caller-supplied registry rather than the global default so
// driftlens-server can run multiple concurrent scans without their counters
// colliding (supplemented feature, SPEC_FULL §3.3).
type Metrics struct {
	FindingsTotal     *prometheus.CounterVec
	CorrelationsTotal *prometheus.CounterVec
	FilesAnalyzed     prometheus.Counter
	ParseFailures     *prometheus.CounterVec
	RunDuration       prometheus.Histogram
}

// NewMetrics creates and registers a Metrics set against reg. Passing a
// fresh prometheus.NewRegistry() per run keeps label cardinality and
// lifetime scoped to that run.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FindingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "driftlens_findings_total",
			Help: "Number of drift findings emitted, by type and severity.",
		}, []string{"type", "severity"}),
		CorrelationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "driftlens_correlations_total",
			Help: "Number of cross-layer correlations emitted, by strategy.",
		}, []string{"strategy"}),
		FilesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftlens_files_analyzed_total",
			Help: "Number of changed files fetched and analyzed.",
		}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "driftlens_parse_failures_total",
			Help: "Number of files skipped due to a parse failure, by analyzer.",
		}, []string{"analyzer"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "driftlens_run_duration_seconds",
			Help:    "Wall-clock duration of a full orchestrator run.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.FindingsTotal, m.CorrelationsTotal, m.FilesAnalyzed, m.ParseFailures, m.RunDuration)
	return m
}
