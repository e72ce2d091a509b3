package telemetry

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestSimpleLoggerWithFieldsIsImmutable(t *testing.T) {
	base := NewSimple()
	child := base.WithField("run", "abc")

	// Calling WithField must not mutate base: a second derivation from base
	// should not see fields picked up by an unrelated sibling.
	sibling := base.WithField("run", "xyz")

	require.NotSame(t, child, sibling)
	require.Empty(t, base.(*SimpleLogger).fields)
	child.Info("child event")
	sibling.Info("sibling event")
}

func TestSimpleLoggerErrorDoesNotPanic(t *testing.T) {
	l := NewSimple().WithFields(map[string]interface{}{"file": "a.go"})
	require.NotPanics(t, func() {
		l.Error("boom", errors.New("kaboom"))
	})
}

func TestNewLogrusProducesDistinctEntries(t *testing.T) {
	l := NewLogrus()
	child := l.WithField("analyzer", "openapi")
	require.NotNil(t, child)
	require.NotSame(t, l, child)
	require.NotPanics(t, func() {
		child.Warn("skipping unparseable file")
	})
}

func TestMetricsRegisterAndIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.FindingsTotal.WithLabelValues("api", "high").Inc()
	m.FilesAnalyzed.Add(3)

	got := &dto.Metric{}
	require.NoError(t, m.FindingsTotal.WithLabelValues("api", "high").Write(got))
	require.Equal(t, float64(1), got.GetCounter().GetValue())
}
