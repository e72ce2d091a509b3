package configscan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionChangeKind(t *testing.T) {
	require.Equal(t, "major", versionChangeKind("^3.2.1", "4.0.0"))
	require.Equal(t, "minor", versionChangeKind("3.2.1", "3.3.0"))
	require.Equal(t, "patch", versionChangeKind("3.2.1", "3.2.2"))
	require.Equal(t, "", versionChangeKind("3.2.1", "3.2.1"))
}

func TestDiffLockfilesIntegrityMismatch(t *testing.T) {
	base := &lockfile{Dependencies: map[string]lockEntry{
		"express": {Version: "4.18.0", Integrity: "sha512-aaa"},
	}}
	head := &lockfile{Dependencies: map[string]lockEntry{
		"express": {Version: "4.18.0", Integrity: "sha512-bbb"},
	}}
	changes := diffLockfiles("package-lock.json", base, head, false)
	require.Contains(t, changes, "INTEGRITY_MISMATCH: 1 packages have different checksums")
}

func TestDiffLockfilesNewFile(t *testing.T) {
	head := &lockfile{Dependencies: map[string]lockEntry{"express": {Version: "4.18.0"}}}
	changes := diffLockfiles("package-lock.json", nil, head, true)
	require.Contains(t, changes, "NEW_LOCK_FILE: package-lock.json created")
}

func TestDiffManifestsVulnOnlyOnVersionChange(t *testing.T) {
	base := &manifest{Dependencies: map[string]string{"lodash": "4.17.10"}}
	head := &manifest{Dependencies: map[string]string{"lodash": "4.17.10"}}
	changes, matched := diffManifests(base, head)
	require.False(t, matched)
	require.Empty(t, changes)

	head2 := &manifest{Dependencies: map[string]string{"lodash": "4.17.5"}}
	changes2, matched2 := diffManifests(base, head2)
	require.True(t, matched2)
	require.Contains(t, changes2, "SECURITY_VULNERABILITY: lodash")
}

func TestExtractKeyPathsRedactsSecrets(t *testing.T) {
	tree := map[string]interface{}{
		"database": map[string]interface{}{
			"password": "hunter2",
			"host":     "localhost",
		},
	}
	paths := ExtractKeyPaths(tree)
	var sawRedacted bool
	for _, p := range paths {
		if p.Path == "database.[REDACTED_PAS]" {
			sawRedacted = true
		}
	}
	require.True(t, sawRedacted)
}

func TestMatchesSimpleGlob(t *testing.T) {
	require.True(t, matchesSimpleGlob("**/feature-flags.yaml", "config/prod/feature-flags.yaml"))
	require.False(t, matchesSimpleGlob("**/feature-flags.yaml", "config/prod/other.yaml"))
}
