// Package config loads and validates driftlens's run configuration: per-
// strategy correlation budgets and weights, severity/cascade thresholds, and
// user-defined correlation rules (spec §5, §8).
//
// Grounded on the teacher's internal/config/load.go shape (YAML-first load
// with a sensible Default(), LoadFromBytes separated from disk I/O for
// testability) but validated with go-playground/validator instead of the
// teacher's hand-rolled field checks — a dependency the pack (kubernaut)
// declares but barely exercises outside tests.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/brennhill/driftlens/internal/model"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// StrategyBudget bounds how much work one correlation strategy may spend
// selecting candidate pairs (spec §5.2).
type StrategyBudget struct {
	Low    int `yaml:"low" validate:"gte=0"`
	Medium int `yaml:"medium" validate:"gte=0"`
	High   int `yaml:"high" validate:"gte=0"`
}

// StrategyConfig configures one correlation strategy: its weight in the
// aggregated score and its candidate-pair budget.
type StrategyConfig struct {
	Weight    float64        `yaml:"weight" validate:"gte=0,lte=1"`
	Budget    StrategyBudget `yaml:"budget"`
	Enabled   bool           `yaml:"enabled"`
	Threshold float64        `yaml:"threshold" validate:"gte=0,lte=1"`
}

// UserRule is a user-authored correlation override: a pair of artifact
// tokens (exact IDs, substrings, or globs) and the relationship to force
// between any pair both tokens resolve to (spec §5.5).
type UserRule struct {
	Source       string  `yaml:"source" validate:"required"`
	Target       string  `yaml:"target" validate:"required"`
	Relationship string  `yaml:"relationship" validate:"required"`
	Score        float64 `yaml:"score" validate:"gte=0,lte=1"`
	Ignore       bool    `yaml:"ignore"`
}

// CascadeConfig configures severity reassessment's hard/soft link
// thresholds (spec §4.8 step 2: `thresholds.block_min`/`correlate_min`).
// The cascade-count and hard-link-count upgrade rules themselves (§4.8
// step 4) use spec-fixed thresholds, not a configurable count.
type CascadeConfig struct {
	HardLinkThreshold float64 `yaml:"hardLinkThreshold" validate:"gte=0,lte=1"`
	SoftLinkThreshold float64 `yaml:"softLinkThreshold" validate:"gte=0,lte=1"`
}

// Config is the normalized, validated representation of a driftlens run
// configuration file.
type Config struct {
	Version           string                    `yaml:"version" validate:"required"`
	FetchWorkers      int                       `yaml:"fetchWorkers" validate:"gte=1"`
	MaxCandidatePairs int                       `yaml:"maxCandidatePairs" validate:"gte=1"`
	Strategies        map[string]StrategyConfig `yaml:"strategies" validate:"dive"`
	Cascade           CascadeConfig             `yaml:"cascade"`
	UserRules         []UserRule                `yaml:"userRules" validate:"dive"`
	VulnerablePackages []string                 `yaml:"vulnerablePackages"`

	// OverrideReason, when set, waives blocking for this run: every
	// finding is stamped with an applied override (spec §4.1's
	// applyOverride) and the report's summary.overrideApplied becomes
	// true, which in turn un-gates summary.blocked (spec §6).
	OverrideReason string `yaml:"overrideReason"`
}

var validate = validator.New()

// defaultStrategyWeights lists every correlation strategy driftlens ships with
// and their default weights (spec §5.3: weights sum to 1.0 across the
// enabled set by convention, though this isn't enforced — an unbalanced
// weight set is a config smell, not an error).
var defaultStrategyWeights = map[string]float64{
	"entity":        0.30,
	"operation":     0.20,
	"infrastructure": 0.15,
	"dependency":    0.15,
	"temporal":      0.10,
	"code":          0.10,
}

// Default returns driftlens's built-in configuration: every strategy with
// its default weight and enabled except temporal, moderate candidate
// budgets, and no user-defined rules.
func Default() *Config {
	strategies := make(map[string]StrategyConfig, len(defaultStrategyWeights))
	for name, weight := range defaultStrategyWeights {
		strategies[name] = StrategyConfig{
			Weight:    weight,
			Enabled:   name != "temporal",
			Threshold: 0.3,
			Budget:    StrategyBudget{Low: 50, Medium: 200, High: 1000},
		}
	}
	return &Config{
		Version:           "1",
		FetchWorkers:      8,
		MaxCandidatePairs: 5000,
		Strategies:        strategies,
		Cascade: CascadeConfig{
			HardLinkThreshold: 0.80,
			SoftLinkThreshold: 0.45,
		},
		VulnerablePackages: []string{
			"event-stream",
			"flatmap-stream",
			"ua-parser-js",
			"node-ipc",
			"colors",
		},
	}
}

// Load reads and validates configuration from disk. A missing file is not
// an error: driftlens falls back to Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("%w: %v", model.ErrConfigInvalid, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates configuration from YAML bytes, merging
// unset fields onto Default() so a partial config file (e.g. one that only
// overrides cascade thresholds) still produces a fully populated Config.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(string(data)) == "" {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfigInvalid, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfigInvalid, err)
	}
	for _, rule := range cfg.UserRules {
		if rule.Source == "" || rule.Target == "" {
			return nil, fmt.Errorf("%w: user rule missing source/target", model.ErrConfigInvalid)
		}
	}
	return cfg, nil
}

// StrategyNames returns the configured strategy names in a stable order.
func (c *Config) StrategyNames() []string {
	names := make([]string, 0, len(c.Strategies))
	for name := range c.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsVulnerable reports whether packageName appears on the configured
// vulnerable-package list. The configscan analyzer does not consult this
// list; it matches dependencies against its own fixed table in vuln.go.
func (c *Config) IsVulnerable(packageName string) bool {
	for _, name := range c.VulnerablePackages {
		if strings.EqualFold(name, packageName) {
			return true
		}
	}
	return false
}
