package main

import (
	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/analyzer/configscan"
	"github.com/brennhill/driftlens/internal/analyzer/iac"
	"github.com/brennhill/driftlens/internal/analyzer/openapi"
	"github.com/brennhill/driftlens/internal/analyzer/sqlmig"
	"github.com/brennhill/driftlens/internal/plugins"
)

// newRegistryWithPlugins builds the built-in analyzer registry plus any
// plugin-loaded analyzers from pluginPaths. orchestrator.New adds the code
// analyzer on top of whatever registry it is handed.
func newRegistryWithPlugins(pluginPaths []string) (*analyzer.Registry, error) {
	registry := analyzer.NewRegistry(
		openapi.New(),
		sqlmig.New(),
		iac.New(),
		configscan.New(),
	)
	if len(pluginPaths) == 0 {
		return registry, nil
	}

	loaded, err := plugins.Load(pluginPaths)
	if err != nil {
		return nil, err
	}
	for _, a := range loaded {
		registry.Register(a)
	}
	return registry, nil
}
