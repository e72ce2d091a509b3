package configscan

import (
	"context"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/pathutil"
	"github.com/brennhill/driftlens/internal/risk"
)

// Analyzer implements analyzer.Analyzer for application/dependency
// configuration: package manifests, lockfiles, docker-compose files,
// feature-flag files, and generic config with secret redaction.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string { return "configscan" }

func (a *Analyzer) CanHandle(f model.ChangedFile) bool {
	if f.Status == model.StatusRemoved {
		return false
	}
	p := strings.ToLower(f.Path)
	return isManifest(p) || isLockfile(p) || isComposeFile(p) || strings.HasSuffix(p, ".json") || strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")
}

func isManifest(p string) bool {
	return strings.HasSuffix(p, "package.json") || strings.HasSuffix(p, "pyproject.toml") || strings.HasSuffix(p, "go.mod")
}

func isLockfile(p string) bool {
	return strings.HasSuffix(p, "package-lock.json") || strings.HasSuffix(p, "yarn.lock") || strings.HasSuffix(p, "npm-shrinkwrap.json")
}

func isComposeFile(p string) bool {
	return strings.Contains(p, "docker-compose")
}

func (a *Analyzer) Analyze(ctx context.Context, ac analyzer.Context) ([]model.DriftFinding, error) {
	var findings []model.DriftFinding

	for _, f := range ac.ChangeSet.Files {
		if f.Status == model.StatusRemoved {
			continue
		}
		path := pathutil.Normalize(f.Path)
		lower := strings.ToLower(path)

		switch {
		case isManifest(lower):
			if finding, ok := a.analyzeManifest(ctx, ac, path); ok {
				findings = append(findings, finding)
			}
		case isLockfile(lower):
			if finding, ok := a.analyzeLockfile(ctx, ac, path, f.Status); ok {
				findings = append(findings, finding)
			}
		case isComposeFile(lower):
			if finding, ok := a.analyzeCompose(ctx, ac, path); ok {
				findings = append(findings, finding)
			}
		case matchesFeatureFlagGlob(ac.Config.FeatureFlagGlob, path):
			if finding, ok := a.analyzeFeatureFlags(ctx, ac, path); ok {
				findings = append(findings, finding)
			}
		case matchesAnyGlob(ac.Config.ConfigGlobs, path):
			if finding, ok := a.analyzeGenericConfig(ctx, ac, path); ok {
				findings = append(findings, finding)
			}
		}
	}

	return findings, nil
}

func (a *Analyzer) analyzeManifest(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	baseContent, baseMissing := fetch(ctx, ac, ac.ChangeSet.BaseRef, path)
	headContent, headMissing := fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if headMissing {
		return model.DriftFinding{}, false
	}
	head, err := parseManifest(headContent)
	if err != nil {
		ac.Log.Warn("configscan: failed to parse manifest " + path)
		return model.DriftFinding{}, false
	}
	var base *manifest
	if !baseMissing {
		base, _ = parseManifest(baseContent)
	}
	changes, _ := diffManifests(base, head)
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "configuration")
	return model.DriftFinding{
		Type:      model.TypeConfiguration,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
	}, true
}

func (a *Analyzer) analyzeLockfile(ctx context.Context, ac analyzer.Context, path string, status model.FileStatus) (model.DriftFinding, bool) {
	baseContent, baseMissing := fetch(ctx, ac, ac.ChangeSet.BaseRef, path)
	headContent, headMissing := fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if headMissing {
		return model.DriftFinding{}, false
	}
	head, err := parseLockfile(headContent)
	if err != nil {
		ac.Log.Warn("configscan: failed to parse lockfile " + path)
		return model.DriftFinding{}, false
	}
	var base *lockfile
	if !baseMissing {
		base, _ = parseLockfile(baseContent)
	}
	changes := diffLockfiles(path, base, head, baseMissing || status == model.StatusAdded)
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "configuration")
	return model.DriftFinding{
		Type:      model.TypeConfiguration,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
	}, true
}

func (a *Analyzer) analyzeCompose(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	baseContent, _ := fetch(ctx, ac, ac.ChangeSet.BaseRef, path)
	headContent, headMissing := fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if headMissing {
		return model.DriftFinding{}, false
	}
	changes := diffComposeServices(baseContent, headContent)
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "configuration")
	return model.DriftFinding{
		Type:      model.TypeConfiguration,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
	}, true
}

func (a *Analyzer) analyzeFeatureFlags(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	baseContent, _ := fetch(ctx, ac, ac.ChangeSet.BaseRef, path)
	headContent, headMissing := fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if headMissing {
		return model.DriftFinding{}, false
	}
	changes := diffFeatureFlags(baseContent, headContent)
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "configuration")
	return model.DriftFinding{
		Type:      model.TypeConfiguration,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
	}, true
}

func (a *Analyzer) analyzeGenericConfig(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	baseContent, _ := fetch(ctx, ac, ac.ChangeSet.BaseRef, path)
	headContent, headMissing := fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if headMissing {
		return model.DriftFinding{}, false
	}
	baseTree := parseGenericTree(baseContent)
	headTree := parseGenericTree(headContent)
	changes := DiffKeys(ExtractKeyPaths(baseTree), ExtractKeyPaths(headTree))
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "configuration")
	return model.DriftFinding{
		Type:      model.TypeConfiguration,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
	}, true
}

func fetch(ctx context.Context, ac analyzer.Context, ref, path string) ([]byte, bool) {
	res, err := ac.Fetcher.Fetch(ctx, ref, path)
	if err != nil || res.Missing {
		return nil, true
	}
	return res.Content, false
}

func matchesFeatureFlagGlob(glob, path string) bool {
	if glob == "" {
		return false
	}
	return matchesSimpleGlob(glob, path)
}

func matchesAnyGlob(globs []string, path string) bool {
	for _, g := range globs {
		if matchesSimpleGlob(g, path) {
			return true
		}
	}
	return false
}
