package plugins

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/risk"
	"github.com/brennhill/driftlens/pkg/driftplugin"
)

// goPluginAnalyzer wraps a driftplugin.Definition loaded from a .so plugin
// as an analyzer.Analyzer.
type goPluginAnalyzer struct {
	definition *driftplugin.Definition
}

func (a *goPluginAnalyzer) id() string { return strings.TrimSpace(a.definition.ID) }

func (a *goPluginAnalyzer) Name() string {
	name := strings.TrimSpace(a.definition.Name)
	if name == "" {
		return a.id()
	}
	return name
}

func (a *goPluginAnalyzer) CanHandle(f model.ChangedFile) bool {
	if f.Status == model.StatusRemoved && len(a.definition.Extensions) == 0 {
		return false
	}
	if len(a.definition.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(f.Path)
	for _, want := range a.definition.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

func (a *goPluginAnalyzer) Analyze(ctx context.Context, ac analyzer.Context) ([]model.DriftFinding, error) {
	if a.definition.Check == nil {
		return nil, nil
	}
	var findings []model.DriftFinding
	for _, f := range ac.ChangeSet.Files {
		if !a.CanHandle(f) {
			continue
		}
		base, head, err := fetch.FetchBoth(ctx, ac.Fetcher, ac.ChangeSet, f.Path)
		if err != nil {
			continue
		}
		baseIn := &driftplugin.FileRevision{Path: f.Path, Content: base.Content, Missing: base.Missing}
		headIn := &driftplugin.FileRevision{Path: f.Path, Content: head.Content, Missing: head.Missing}

		for _, pf := range a.definition.Check(baseIn, headIn) {
			layer := model.FindingType(strings.ToLower(strings.TrimSpace(pf.Layer)))
			switch layer {
			case model.TypeAPI, model.TypeDatabase, model.TypeInfrastructure, model.TypeConfiguration:
			default:
				continue
			}
			if len(pf.Changes) == 0 {
				continue
			}
			scored := risk.ScoreChanges(pf.Changes, string(layer))
			reasoning := pf.Reasoning
			if len(reasoning) == 0 {
				reasoning = scored.Reasoning
			}
			findings = append(findings, model.DriftFinding{
				Type:      layer,
				File:      f.Path,
				Severity:  scored.Severity,
				Changes:   pf.Changes,
				Reasoning: reasoning,
				Entities:  pf.Entities,
				Endpoints: pf.Endpoints,
			})
		}
	}
	return findings, nil
}
