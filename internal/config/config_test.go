package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	loaded, err := LoadFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, cfg.Version, loaded.Version)
	require.Len(t, loaded.Strategies, len(cfg.Strategies))
}

func TestLoadFromBytesEmptyReturnsDefault(t *testing.T) {
	cfg, err := LoadFromBytes(nil)
	require.NoError(t, err)
	require.Equal(t, Default().FetchWorkers, cfg.FetchWorkers)
}

func TestLoadFromBytesRejectsOutOfRangeStrategyWeight(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
version: "1"
strategies:
  entity:
    weight: 1.5
    threshold: 0.3
`))
	require.Error(t, err)
}

func TestLoadFromBytesRejectsIncompleteUserRule(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
version: "1"
userRules:
  - relationship: related
`))
	require.Error(t, err)
}

func TestIsVulnerableCaseInsensitive(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.IsVulnerable("Event-Stream"))
	require.False(t, cfg.IsVulnerable("express"))
}
