package sqlmig

import (
	"testing"

	"github.com/brennhill/driftlens/internal/model"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFileDropTable(t *testing.T) {
	f, ok := analyzeFile("migrations/0001.sql", "DROP TABLE users;")
	require.True(t, ok)
	require.Equal(t, model.SeverityHigh, f.Severity)
	require.Contains(t, f.Changes, "DROP TABLE: users")
	require.Contains(t, f.Entities, "users")
}

func TestAnalyzeFileDMLOnlySkipped(t *testing.T) {
	_, ok := analyzeFile("migrations/0002.sql", "INSERT INTO users (id) VALUES (1);")
	require.False(t, ok)
}

func TestAnalyzeFileTableRename(t *testing.T) {
	f, ok := analyzeFile("migrations/0003.sql", "DROP TABLE legacy_users;\nCREATE TABLE legacy_users (id int);")
	require.True(t, ok)
	require.Contains(t, f.Changes, "TABLE RENAME: legacy_users (schema change)")
	require.NotContains(t, f.Changes, "DROP TABLE: legacy_users")
}

func TestAnalyzeFileColumnLossVsRename(t *testing.T) {
	loss, ok := analyzeFile("m.sql", "ALTER TABLE users DROP COLUMN legacy_flag;\nALTER TABLE users DROP COLUMN old_name;")
	require.True(t, ok)
	require.Contains(t, loss.Changes, "COLUMN LOSS: users (net -2 columns)")

	rename, ok := analyzeFile("m2.sql", "ALTER TABLE users DROP COLUMN old_name;\nALTER TABLE users ADD COLUMN new_name varchar(50);")
	require.True(t, ok)
	require.Contains(t, rename.Changes, "COLUMN RENAME: users (1 dropped, 1 added)")
}

func TestMatchGlobDoubleStarSegments(t *testing.T) {
	require.True(t, matchGlob("**/*.sql", "migrations/2024/0001_init.sql"))
	require.True(t, matchGlob("**/*.sql", "0001_init.sql"))
	require.False(t, matchGlob("**/*.sql", "migrations/readme.md"))
}
