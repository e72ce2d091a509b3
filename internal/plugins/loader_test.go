package plugins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	content map[string][]byte
}

func (f fakeFetcher) Fetch(_ context.Context, ref, path string) (fetch.Result, error) {
	c, ok := f.content[ref+":"+path]
	if !ok {
		return fetch.Result{Path: path, Missing: true}, nil
	}
	return fetch.Result{Path: path, Content: c}, nil
}

func TestLoadYAMLAnalyzerDetectsIndicator(t *testing.T) {
	tmp := t.TempDir()
	pluginPath := filepath.Join(tmp, "custom.yml")
	content := `analyzers:
  - id: CUSTOM-open-telemetry-flag
    name: telemetry flag scanner
    layer: configuration
    match:
      paths: ["**/*.yaml"]
    indicators:
      - contains: "enable_debug_endpoints: true"
        token: FEATURE_FLAG_DEBUG_ENABLED
`
	require.NoError(t, os.WriteFile(pluginPath, []byte(content), 0o644))

	analyzers, err := Load([]string{pluginPath})
	require.NoError(t, err)
	require.Len(t, analyzers, 1)
	require.Equal(t, "telemetry flag scanner", analyzers[0].Name())

	fetcher := fakeFetcher{content: map[string][]byte{
		"head:config/app.yaml": []byte("enable_debug_endpoints: true\n"),
	}}
	ac := analyzer.Context{
		ChangeSet: model.ChangeSet{
			HeadRef: "head",
			Files:   []model.ChangedFile{{Path: "config/app.yaml", Status: model.StatusModified}},
		},
		Fetcher: fetcher,
	}
	findings, err := analyzers[0].Analyze(context.Background(), ac)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, model.TypeConfiguration, findings[0].Type)
	require.Contains(t, findings[0].Changes, "FEATURE_FLAG_DEBUG_ENABLED")
}

func TestLoadRejectsDuplicateAnalyzerIDs(t *testing.T) {
	tmp := t.TempDir()
	spec := `id: CUSTOM-dup
layer: configuration
indicators:
  - contains: "x"
`
	a := filepath.Join(tmp, "a.yml")
	b := filepath.Join(tmp, "b.yml")
	require.NoError(t, os.WriteFile(a, []byte(spec), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(spec), 0o644))

	_, err := Load([]string{a, b})
	require.Error(t, err)
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	_, err := Load([]string{"custom.json"})
	require.Error(t, err)
}

func TestLoadGoPluginMissingFileErrors(t *testing.T) {
	pathValue := filepath.Join(t.TempDir(), "missing.so")
	_, err := Load([]string{pathValue})
	require.Error(t, err)
}

func TestNewYAMLAnalyzerValidation(t *testing.T) {
	_, err := newYAMLAnalyzer(yamlAnalyzerSpec{})
	require.Error(t, err, "missing id should fail")

	_, err = newYAMLAnalyzer(yamlAnalyzerSpec{ID: "x", Layer: "not-a-layer"})
	require.Error(t, err, "invalid layer should fail")

	_, err = newYAMLAnalyzer(yamlAnalyzerSpec{ID: "x", Layer: "api"})
	require.Error(t, err, "missing indicators should fail")
}
