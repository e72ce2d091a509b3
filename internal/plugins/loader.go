// Package plugins loads driftlens analyzers defined outside the built-in
// set: a small YAML indicator-matching DSL, and Go plugins built against
// pkg/driftplugin. Adapted from stricture's internal/plugins loader, which
// did the same dispatch-by-extension (.yml/.yaml vs .so) for lint rules.
package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer"
	"gopkg.in/yaml.v3"
)

// Load loads plugin analyzers from the given paths, sorted by ID for
// deterministic registration order.
func Load(paths []string) ([]analyzer.Analyzer, error) {
	loaded := make([]pluginAnalyzer, 0)
	seen := map[string]bool{}

	for _, raw := range paths {
		pathValue := strings.TrimSpace(raw)
		if pathValue == "" {
			continue
		}

		ext := strings.ToLower(filepath.Ext(pathValue))
		var found []pluginAnalyzer
		var err error

		switch ext {
		case ".yml", ".yaml":
			found, err = loadYAMLAnalyzers(pathValue)
		case ".so":
			found, err = loadGoPluginAnalyzers(pathValue)
		default:
			err = fmt.Errorf("unsupported plugin type %q for %s", ext, pathValue)
		}
		if err != nil {
			return nil, err
		}

		for _, p := range found {
			if seen[p.id()] {
				return nil, fmt.Errorf("duplicate plugin analyzer ID %q", p.id())
			}
			seen[p.id()] = true
			loaded = append(loaded, p)
		}
	}

	sort.Slice(loaded, func(i, j int) bool { return loaded[i].id() < loaded[j].id() })

	out := make([]analyzer.Analyzer, len(loaded))
	for i, p := range loaded {
		out[i] = p
	}
	return out, nil
}

// pluginAnalyzer extends analyzer.Analyzer with the identity accessor the
// loader needs for duplicate detection, without widening the public
// analyzer.Analyzer contract itself.
type pluginAnalyzer interface {
	analyzer.Analyzer
	id() string
}

type yamlPluginFile struct {
	Analyzers []yamlAnalyzerSpec `yaml:"analyzers"`
}

type yamlAnalyzerSpec struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Layer       string            `yaml:"layer"`
	Description string            `yaml:"description"`
	Match       yamlMatchSpec     `yaml:"match"`
	Indicators  []yamlIndicator   `yaml:"indicators"`
}

type yamlMatchSpec struct {
	PathGlobs []string `yaml:"paths"`
}

type yamlIndicator struct {
	Contains string `yaml:"contains"`
	Token    string `yaml:"token"`
}

func loadYAMLAnalyzers(pathValue string) ([]pluginAnalyzer, error) {
	data, err := os.ReadFile(pathValue)
	if err != nil {
		return nil, fmt.Errorf("read plugin file %s: %w", pathValue, err)
	}

	var doc yamlPluginFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plugin yaml %s: %w", pathValue, err)
	}
	if len(doc.Analyzers) == 0 {
		var single yamlAnalyzerSpec
		if err := yaml.Unmarshal(data, &single); err == nil && strings.TrimSpace(single.ID) != "" {
			doc.Analyzers = []yamlAnalyzerSpec{single}
		}
	}
	if len(doc.Analyzers) == 0 {
		return nil, fmt.Errorf("plugin yaml %s has no analyzers", pathValue)
	}

	out := make([]pluginAnalyzer, 0, len(doc.Analyzers))
	for _, spec := range doc.Analyzers {
		a, err := newYAMLAnalyzer(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pathValue, err)
		}
		out = append(out, a)
	}
	return out, nil
}
