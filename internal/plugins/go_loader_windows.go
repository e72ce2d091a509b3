//go:build windows

package plugins

import "fmt"

func loadGoPluginAnalyzers(pathValue string) ([]pluginAnalyzer, error) {
	return nil, fmt.Errorf("go plugins are not supported on windows: %s", pathValue)
}
