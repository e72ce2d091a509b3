// Fuzz tests for the SQL migration analyzer's regex-based classifier.
//
// Run: go test -fuzz=FuzzAnalyzeFile -fuzztime=60s ./internal/analyzer/sqlmig/...
package sqlmig

import "testing"

// FuzzAnalyzeFile feeds arbitrary bytes as migration SQL. It must never
// panic regardless of how malformed the input is — analyzeFile's regex
// classification only ever sees DDL-shaped text in real migrations, but an
// adversarial or truncated file must still degrade to "no finding", not a
// crash.
func FuzzAnalyzeFile(f *testing.F) {
	seeds := []string{
		"DROP TABLE users;",
		"ALTER TABLE users DROP COLUMN legacy_flag;",
		"CREATE TABLE users (id int);",
		"INSERT INTO users (id) VALUES (1);",
		"",
		"DROP",
		"ALTER TABLE DROP COLUMN",
		"\x00\x01\x02 not sql at all {}[]",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, content string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("analyzeFile panicked on input %q: %v", content, r)
			}
		}()
		analyzeFile("migrations/fuzz.sql", content)
	})
}
