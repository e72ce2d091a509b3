//go:build !windows

package plugins

import (
	"fmt"
	"plugin"

	"github.com/brennhill/driftlens/pkg/driftplugin"
)

func loadGoPluginAnalyzers(pathValue string) ([]pluginAnalyzer, error) {
	plug, err := plugin.Open(pathValue)
	if err != nil {
		return nil, fmt.Errorf("open plugin %s: %w", pathValue, err)
	}
	sym, err := plug.Lookup("Analyzer")
	if err != nil {
		return nil, fmt.Errorf("plugin %s missing exported symbol Analyzer: %w", pathValue, err)
	}

	switch v := sym.(type) {
	case *driftplugin.Definition:
		return []pluginAnalyzer{&goPluginAnalyzer{definition: v}}, nil
	default:
		return nil, fmt.Errorf("plugin %s Analyzer symbol must be *driftplugin.Definition, got %T", pathValue, sym)
	}
}
