package plugins

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/risk"
)

// yamlAnalyzer is an analyzer.Analyzer built from a YAML indicator-matching
// spec: for every changed file matching its path globs, every indicator
// whose substring appears in the head content contributes its token to the
// finding's Changes, scored through the shared risk engine.
type yamlAnalyzer struct {
	idValue     string
	name        string
	layer       model.FindingType
	description string
	pathGlobs   []*regexp.Regexp
	indicators  []yamlIndicator
}

func newYAMLAnalyzer(spec yamlAnalyzerSpec) (*yamlAnalyzer, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, fmt.Errorf("analyzer id is required")
	}
	layer := model.FindingType(strings.ToLower(strings.TrimSpace(spec.Layer)))
	switch layer {
	case model.TypeAPI, model.TypeDatabase, model.TypeInfrastructure, model.TypeConfiguration:
	default:
		return nil, fmt.Errorf("analyzer %s has invalid layer %q", id, spec.Layer)
	}
	if len(spec.Indicators) == 0 {
		return nil, fmt.Errorf("analyzer %s must define at least one indicator", id)
	}

	globs, err := compileGlobList(spec.Match.PathGlobs)
	if err != nil {
		return nil, fmt.Errorf("analyzer %s path pattern: %w", id, err)
	}

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = id
	}

	return &yamlAnalyzer{
		idValue:     id,
		name:        name,
		layer:       layer,
		description: strings.TrimSpace(spec.Description),
		pathGlobs:   globs,
		indicators:  spec.Indicators,
	}, nil
}

func (a *yamlAnalyzer) id() string   { return a.idValue }
func (a *yamlAnalyzer) Name() string { return a.name }

func (a *yamlAnalyzer) CanHandle(f model.ChangedFile) bool {
	if f.Status == model.StatusRemoved {
		return false
	}
	return matchAnyPath(a.pathGlobs, filepath.ToSlash(f.Path), len(a.pathGlobs) == 0)
}

func (a *yamlAnalyzer) Analyze(ctx context.Context, ac analyzer.Context) ([]model.DriftFinding, error) {
	var findings []model.DriftFinding
	for _, f := range ac.ChangeSet.Files {
		if !a.CanHandle(f) {
			continue
		}
		res, err := ac.Fetcher.Fetch(ctx, ac.ChangeSet.HeadRef, f.Path)
		if err != nil || res.Missing {
			continue
		}
		content := string(res.Content)

		var changes []string
		for _, ind := range a.indicators {
			if ind.Contains == "" {
				continue
			}
			if strings.Contains(strings.ToLower(content), strings.ToLower(ind.Contains)) {
				token := ind.Token
				if token == "" {
					token = ind.Contains
				}
				changes = append(changes, token)
			}
		}
		if len(changes) == 0 {
			continue
		}

		scored := risk.ScoreChanges(changes, string(a.layer))
		findings = append(findings, model.DriftFinding{
			Type:      a.layer,
			File:      f.Path,
			Severity:  scored.Severity,
			Changes:   changes,
			Reasoning: scored.Reasoning,
		})
	}
	return findings, nil
}

func compileGlobList(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" {
			continue
		}
		re, err := globToRegex(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func globToRegex(pattern string) (*regexp.Regexp, error) {
	replaced := regexp.QuoteMeta(filepath.ToSlash(pattern))
	replaced = strings.ReplaceAll(replaced, `\*\*`, `.*`)
	replaced = strings.ReplaceAll(replaced, `\*`, `[^/]*`)
	replaced = strings.ReplaceAll(replaced, `\?`, `.`)
	return regexp.Compile("^" + replaced + "$")
}

func matchAnyPath(patterns []*regexp.Regexp, pathValue string, defaultWhenEmpty bool) bool {
	if len(patterns) == 0 {
		return defaultWhenEmpty
	}
	for _, re := range patterns {
		if re.MatchString(pathValue) {
			return true
		}
	}
	return false
}
