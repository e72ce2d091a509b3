package iac

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/pathutil"
	"github.com/brennhill/driftlens/internal/risk"
)

// Analyzer implements analyzer.Analyzer for infrastructure-as-code
// artifacts: Terraform plan JSON, CloudFormation templates, raw HCL, and
// Kubernetes manifests.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string { return "iac" }

func (a *Analyzer) CanHandle(f model.ChangedFile) bool {
	if f.Status == model.StatusRemoved {
		return false
	}
	p := strings.ToLower(f.Path)
	return strings.HasSuffix(p, ".tf") || strings.HasSuffix(p, ".tf.json") ||
		strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") ||
		strings.HasSuffix(p, ".json")
}

func (a *Analyzer) Analyze(ctx context.Context, ac analyzer.Context) ([]model.DriftFinding, error) {
	var findings []model.DriftFinding

	tfPath := pathutil.Normalize(ac.Config.TerraformPath)
	if tfPath != "" {
		if f, ok := a.analyzeTerraformFile(ctx, ac, tfPath); ok {
			findings = append(findings, f)
		}
	}

	for _, file := range ac.ChangeSet.Files {
		if file.Status == model.StatusRemoved {
			continue
		}
		norm := pathutil.Normalize(file.Path)
		if norm == tfPath {
			continue
		}
		if ac.Config.CloudFormationGlob != "" && matchesGlob(ac.Config.CloudFormationGlob, norm) {
			if f, ok := a.analyzeCloudFormationFile(ctx, ac, norm); ok {
				findings = append(findings, f)
			}
			continue
		}
		if strings.HasSuffix(norm, ".tf") {
			if f, ok := a.analyzeHCLFile(ctx, ac, norm); ok {
				findings = append(findings, f)
			}
			continue
		}
		if isKubernetesManifest(norm) {
			if f, ok := a.analyzeKubernetesFile(ctx, ac, norm); ok {
				findings = append(findings, f)
			}
		}
	}

	return findings, nil
}

func isKubernetesManifest(path string) bool {
	return strings.Contains(path, "k8s") || strings.Contains(path, "kubernetes") ||
		strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

func (a *Analyzer) analyzeTerraformFile(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	headContent, headMissing := a.fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if headMissing {
		return model.DriftFinding{}, false
	}

	// A Terraform plan already encodes each resource's before/after state
	// in resource_changes, so the comparison only needs the head plan.
	headPlan, err := parseTerraformPlan(headContent)
	if err != nil {
		ac.Log.Warn(fmt.Sprintf("iac: failed to parse terraform plan %s: %v", path, err))
		return model.DriftFinding{}, false
	}

	changes, reasoning, entities, costImpact := analyzeTerraformPlan(headPlan, ac.Config.CostThresholdUSD)
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}

	result := risk.ScoreChanges(changes, "infrastructure")
	finding := model.DriftFinding{
		Type:      model.TypeInfrastructure,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: append(reasoning, result.Reasoning...),
		Entities:  entities,
	}
	if costImpact != "" {
		finding.Metadata = &model.Metadata{CostImpact: costImpact}
	}
	return finding, true
}

func (a *Analyzer) analyzeCloudFormationFile(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	baseContent, baseMissing := a.fetch(ctx, ac, ac.ChangeSet.BaseRef, path)
	headContent, headMissing := a.fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if headMissing {
		return model.DriftFinding{}, false
	}

	head, err := parseCloudFormation(headContent)
	if err != nil {
		ac.Log.Warn(fmt.Sprintf("iac: failed to parse cloudformation template %s: %v", path, err))
		return model.DriftFinding{}, false
	}
	var base *cfTemplate
	if !baseMissing {
		base, _ = parseCloudFormation(baseContent)
	}

	changes, reasoning, entities, costImpact := analyzeCloudFormation(base, head, ac.Config.CostThresholdUSD)
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "infrastructure")
	finding := model.DriftFinding{
		Type:      model.TypeInfrastructure,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: append(reasoning, result.Reasoning...),
		Entities:  entities,
	}
	if costImpact != "" {
		finding.Metadata = &model.Metadata{CostImpact: costImpact}
	}
	return finding, true
}

func (a *Analyzer) analyzeHCLFile(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	content, missing := a.fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if missing {
		return model.DriftFinding{}, false
	}
	changes := analyzeHCL(string(content))
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "infrastructure")
	return model.DriftFinding{
		Type:      model.TypeInfrastructure,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
	}, true
}

func (a *Analyzer) analyzeKubernetesFile(ctx context.Context, ac analyzer.Context, path string) (model.DriftFinding, bool) {
	content, missing := a.fetch(ctx, ac, ac.ChangeSet.HeadRef, path)
	if missing {
		return model.DriftFinding{}, false
	}
	changes, err := analyzeKubernetesManifest(content)
	if err != nil {
		// Not every YAML file is a Kubernetes manifest; a parse failure
		// here is expected noise, not worth a warning log.
		return model.DriftFinding{}, false
	}
	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}
	result := risk.ScoreChanges(changes, "infrastructure")
	return model.DriftFinding{
		Type:      model.TypeInfrastructure,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
	}, true
}

func (a *Analyzer) fetch(ctx context.Context, ac analyzer.Context, ref, path string) ([]byte, bool) {
	res, err := ac.Fetcher.Fetch(ctx, ref, path)
	if err != nil || res.Missing {
		return nil, true
	}
	return res.Content, false
}

func matchesGlob(glob, path string) bool {
	var b strings.Builder
	b.WriteString("^")
	i := 0
	for i < len(glob) {
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case glob[i] == '*':
			b.WriteString("[^/]*")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(glob[i])))
			i++
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(path)
}
