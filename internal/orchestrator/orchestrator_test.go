package orchestrator

import (
	"context"
	"testing"

	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/stretchr/testify/require"
)

// fixtureFetcher serves content from an in-memory map keyed by "ref:path",
// grounded on the fakeFetcher pattern already used in fetchpool's tests.
type fixtureFetcher struct {
	files map[string][]byte
}

func (f fixtureFetcher) Fetch(_ context.Context, ref, path string) (fetch.Result, error) {
	content, ok := f.files[ref+":"+path]
	if !ok {
		return fetch.Result{Path: path, Missing: true}, nil
	}
	return fetch.Result{Path: path, Content: content}, nil
}

func TestRunNoFetcherIsFatal(t *testing.T) {
	o := New(nil, config.Default(), nil, nil, nil)
	_, err := o.Run(context.Background(), model.ChangeSet{BaseRef: "a", HeadRef: "b"})
	require.ErrorIs(t, err, model.ErrNoContentFetcher)
}

func TestRunEmptyChangeSetProducesEmptyReport(t *testing.T) {
	fetcher := fixtureFetcher{files: map[string][]byte{}}
	o := New(fetcher, config.Default(), nil, nil, nil)
	report, err := o.Run(context.Background(), model.ChangeSet{BaseRef: "base", HeadRef: "head"})
	require.NoError(t, err)
	require.Empty(t, report.Findings)
	require.False(t, report.Summary.Blocked)
}

func TestRunSQLDropTableProducesHighSeverityFinding(t *testing.T) {
	fetcher := fixtureFetcher{files: map[string][]byte{
		"head:migrations/001.sql": []byte("DROP TABLE users;"),
	}}
	o := New(fetcher, config.Default(), nil, nil, nil)
	cs := model.ChangeSet{
		BaseRef: "base", HeadRef: "head",
		Files: []model.ChangedFile{{Path: "migrations/001.sql", Status: model.StatusModified}},
	}
	report, err := o.Run(context.Background(), cs)
	require.NoError(t, err)
	require.NotEmpty(t, report.Findings)
	require.Equal(t, model.SeverityHigh, report.Findings[0].Severity)
	require.True(t, report.Summary.Blocked)
}

func TestRunOverrideReasonUnblocksHighSeverity(t *testing.T) {
	fetcher := fixtureFetcher{files: map[string][]byte{
		"head:migrations/001.sql": []byte("DROP TABLE users;"),
	}}
	cfg := config.Default()
	cfg.OverrideReason = "incident waiver, ticket INC-123"
	o := New(fetcher, cfg, nil, nil, nil)
	cs := model.ChangeSet{
		BaseRef: "base", HeadRef: "head",
		Files: []model.ChangedFile{{Path: "migrations/001.sql", Status: model.StatusModified}},
	}
	report, err := o.Run(context.Background(), cs)
	require.NoError(t, err)
	require.NotEmpty(t, report.Findings)
	require.Equal(t, model.SeverityHigh, report.Findings[0].Severity)
	require.NotNil(t, report.Findings[0].Override)
	require.True(t, report.Summary.OverrideApplied)
	require.False(t, report.Summary.Blocked)
}
