package correlate

import (
	"testing"

	"github.com/brennhill/driftlens/internal/analyzer/code"
	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCorrelateEntityStrategyMatchesEndpointToTable(t *testing.T) {
	cfg := config.Default()
	e := New(cfg, nil)

	api := model.DriftFinding{
		Type: model.TypeAPI, ArtifactID: "api:GET:/v1/users/{id}",
		Endpoints: []string{"GET:/v1/users/{id}"},
	}
	db := model.DriftFinding{
		Type: model.TypeDatabase, ArtifactID: "db:table:users",
		Entities: []string{"users"}, Changes: []string{"ADD_COLUMN: email"},
	}

	corrs := e.Correlate([]model.DriftFinding{api, db}, &code.Result{})
	require.NotEmpty(t, corrs)
	require.Equal(t, "api:GET:/v1/users/{id}", corrs[0].Source)
	require.Greater(t, corrs[0].FinalScore, 0.0)
}

func TestCorrelateCodeStrategyDetectsSameFunctionUsage(t *testing.T) {
	cfg := config.Default()
	e := New(cfg, nil)

	api := model.DriftFinding{
		Type: model.TypeAPI, ArtifactID: "api:GET:/v1/users/{id}",
		Endpoints: []string{"GET:/v1/users/{id}"},
	}
	db := model.DriftFinding{
		Type: model.TypeDatabase, ArtifactID: "db:table:users",
		Entities: []string{"users"}, Changes: []string{"ADD_COLUMN: email"},
	}
	codeResult := &code.Result{
		Handlers: []code.Handler{{Method: "GET", Path: "/v1/users/:id", File: "routes.js", Symbol: "getUserById", Line: 10}},
		DBRefs:   []code.DBRef{{ORM: "raw", Table: "users", Op: "SELECT", File: "routes.js", Symbol: "getUserById", Line: 5}},
		Graph:    code.BuildGraph(nil, nil),
	}

	corrs := e.Correlate([]model.DriftFinding{api, db}, codeResult)
	require.NotEmpty(t, corrs)
	require.GreaterOrEqual(t, corrs[0].FinalScore, 0.0)
	found := false
	for _, ev := range corrs[0].Evidence {
		if ev.File == "routes.js" && ev.Line == 5 {
			found = true
		}
	}
	require.True(t, found, "expected code-strategy evidence with file+line")
}

func TestCorrelateUserRuleForcesExplicitScore(t *testing.T) {
	cfg := config.Default()
	cfg.UserRules = []config.UserRule{
		{Source: "api:GET:/v1/users/{id}", Target: "db:table:users", Relationship: "manual_link", Score: 0.9},
	}
	e := New(cfg, nil)

	api := model.DriftFinding{Type: model.TypeAPI, ArtifactID: "api:GET:/v1/users/{id}", Endpoints: []string{"GET:/v1/users/{id}"}}
	db := model.DriftFinding{Type: model.TypeDatabase, ArtifactID: "db:table:users", Entities: []string{"users"}}

	corrs := e.Correlate([]model.DriftFinding{api, db}, &code.Result{})
	require.Len(t, corrs, 1)
	require.True(t, corrs[0].UserDefined)
	require.Equal(t, 1.0, corrs[0].FinalScore)
	require.Equal(t, "manual_link", corrs[0].Relationship)
}

func TestCorrelateIgnoreRuleSuppressedByCriticalChange(t *testing.T) {
	cfg := config.Default()
	cfg.UserRules = []config.UserRule{
		{Source: "db:table:users", Target: "api:GET:/v1/users/{id}", Ignore: true},
	}
	e := New(cfg, nil)

	api := model.DriftFinding{Type: model.TypeAPI, ArtifactID: "api:GET:/v1/users/{id}", Endpoints: []string{"GET:/v1/users/{id}"}}
	db := model.DriftFinding{
		Type: model.TypeDatabase, ArtifactID: "db:table:users",
		Entities: []string{"users"}, Changes: []string{"DROP TABLE: users"},
	}

	corrs := e.Correlate([]model.DriftFinding{api, db}, &code.Result{})
	require.NotEmpty(t, corrs, "critical change must not be suppressed by an ignore rule")
}

func TestRuleMatchGlob(t *testing.T) {
	require.True(t, ruleMatch("api:GET:*", "api:GET:/v1/users"))
	require.False(t, ruleMatch("api:POST:*", "api:GET:/v1/users"))
	require.True(t, ruleMatch("users", "db:table:users"))
}
