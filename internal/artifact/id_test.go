package artifact

import (
	"testing"

	"github.com/brennhill/driftlens/internal/model"
	"github.com/stretchr/testify/require"
)

func TestPairKeySymmetry(t *testing.T) {
	a, b := "api:GET:/users", "db:table:users"
	require.Equal(t, PairKey(a, b), PairKey(b, a))
}

func TestArtifactIDDeterminism(t *testing.T) {
	f := model.DriftFinding{Type: model.TypeAPI, Endpoints: []string{"GET:/Users/{id}"}}
	id1 := ID(f)
	id2 := ID(f)
	require.Equal(t, id1, id2)
	require.Equal(t, "api:GET:/users/{id}", id1)
}

func TestArtifactIDDatabase(t *testing.T) {
	f := model.DriftFinding{Type: model.TypeDatabase, Entities: []string{"Users"}}
	require.Equal(t, "db:table:users", ID(f))
}

func TestArtifactIDInfrastructure(t *testing.T) {
	f := model.DriftFinding{Type: model.TypeInfrastructure, Entities: []string{"aws_security_group.web"}}
	require.Equal(t, "iac:aws_security_group:aws_security_group.web", ID(f))
}

func TestArtifactIDConfiguration(t *testing.T) {
	f := model.DriftFinding{Type: model.TypeConfiguration, File: "./package.json"}
	require.Equal(t, "config:package.json", ID(f))
}

func TestExpandConservation(t *testing.T) {
	f := model.DriftFinding{
		Type:      model.TypeAPI,
		Endpoints: []string{"GET:/users", "POST:/users"},
		Changes:   []string{"API_EXPANSION: /users"},
	}
	expanded := Expand([]model.DriftFinding{f})
	require.Len(t, expanded, 2)
	seen := map[string]bool{}
	for _, e := range expanded {
		require.Len(t, e.Endpoints, 1)
		seen[e.Endpoints[0]] = true
	}
	require.True(t, seen["GET:/users"])
	require.True(t, seen["POST:/users"])
}
