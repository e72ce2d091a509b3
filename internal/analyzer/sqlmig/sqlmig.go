// Package sqlmig implements the SQL migration layer analyzer (spec §4.3).
//
// Grounded on the teacher's internal/lineage/diff.go regex-driven, ordered
// indicator scanning style, generalized from field-level lineage diffing
// to line-oriented migration scanning.
package sqlmig

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/brennhill/driftlens/internal/analyzer"
	"github.com/brennhill/driftlens/internal/model"
	"github.com/brennhill/driftlens/internal/pathutil"
	"github.com/brennhill/driftlens/internal/risk"
)

// Analyzer implements analyzer.Analyzer for SQL migration files.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string { return "sqlmig" }

func (a *Analyzer) CanHandle(f model.ChangedFile) bool {
	if f.Status == model.StatusRemoved {
		return false
	}
	return strings.HasSuffix(strings.ToLower(f.Path), ".sql")
}

var (
	reDropTable      = regexp.MustCompile(`(?i)\bDROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?["` + "`" + `\[]?([a-zA-Z0-9_.]+)["` + "`" + `\]]?`)
	reCreateTable    = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?["` + "`" + `\[]?([a-zA-Z0-9_.]+)["` + "`" + `\]]?`)
	reAlterTable     = regexp.MustCompile(`(?i)\bALTER\s+TABLE\s+["` + "`" + `\[]?([a-zA-Z0-9_.]+)["` + "`" + `\]]?`)
	reDropColumn     = regexp.MustCompile(`(?i)\bDROP\s+COLUMN\s+["` + "`" + `\[]?([a-zA-Z0-9_]+)["` + "`" + `\]]?`)
	reAddColumn      = regexp.MustCompile(`(?i)\bADD\s+COLUMN\s+["` + "`" + `\[]?([a-zA-Z0-9_]+)["` + "`" + `\]]?`)
	reTruncateTable  = regexp.MustCompile(`(?i)\bTRUNCATE\s+TABLE\s+["` + "`" + `\[]?([a-zA-Z0-9_.]+)["` + "`" + `\]]?`)
	reDropConstraint = regexp.MustCompile(`(?i)\bDROP\s+CONSTRAINT\s+["` + "`" + `\[]?([a-zA-Z0-9_]+)["` + "`" + `\]]?`)
	reDropPolicy     = regexp.MustCompile(`(?i)\bDROP\s+POLICY\s+["` + "`" + `\[]?([a-zA-Z0-9_]+)["` + "`" + `\]]?`)
	reAlterPolicy    = regexp.MustCompile(`(?i)\bALTER\s+POLICY\s+["` + "`" + `\[]?([a-zA-Z0-9_]+)["` + "`" + `\]]?`)
	reCreatePolicy   = regexp.MustCompile(`(?i)\bCREATE\s+POLICY\s+["` + "`" + `\[]?([a-zA-Z0-9_]+)["` + "`" + `\]]?`)
	reTypeNarrow     = regexp.MustCompile(`(?i)\bALTER\s+COLUMN\s+["` + "`" + `\[]?[a-zA-Z0-9_]+["` + "`" + `\]]?\s+TYPE\s+(VARCHAR|CHAR|NUMERIC|DECIMAL)\s*\(`)
	reNotNull        = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	reSchemaStmt     = regexp.MustCompile(`(?i)\b(CREATE|ALTER|DROP|TRUNCATE)\b`)
	reDML            = regexp.MustCompile(`(?i)\b(INSERT\s+INTO|UPDATE\s+\S+\s+SET|DELETE\s+FROM)\b`)
)

func (a *Analyzer) Analyze(ctx context.Context, ac analyzer.Context) ([]model.DriftFinding, error) {
	glob := ac.Config.SQLGlob
	if glob == "" {
		glob = "**/*.sql"
	}

	var findings []model.DriftFinding
	for _, f := range ac.ChangeSet.Files {
		if f.Status == model.StatusRemoved || !matchGlob(glob, pathutil.Normalize(f.Path)) {
			continue
		}
		res, err := ac.Fetcher.Fetch(ctx, ac.ChangeSet.HeadRef, f.Path)
		if err != nil {
			ac.Log.Warn(fmt.Sprintf("sqlmig: failed to fetch %s: %v", f.Path, err))
			continue
		}
		if res.Missing {
			continue
		}
		finding, ok := analyzeFile(pathutil.Normalize(f.Path), string(res.Content))
		if !ok {
			continue
		}
		findings = append(findings, finding)
	}
	return findings, nil
}

func analyzeFile(path, content string) (model.DriftFinding, bool) {
	if isDMLOnly(content) {
		return model.DriftFinding{}, false
	}

	dropped := map[string]bool{}
	created := map[string]bool{}
	var changes []string

	for _, m := range reDropTable.FindAllStringSubmatch(content, -1) {
		table := strings.ToLower(m[1])
		dropped[table] = true
		changes = append(changes, fmt.Sprintf("DROP TABLE: %s", table))
	}
	for _, m := range reCreateTable.FindAllStringSubmatch(content, -1) {
		created[strings.ToLower(m[1])] = true
	}

	// Table rename: same table both dropped and created collapses to a
	// rename indicator and removes the DROP TABLE indicator for it.
	for table := range dropped {
		if created[table] {
			changes = removeIndicator(changes, fmt.Sprintf("DROP TABLE: %s", table))
			changes = append(changes, fmt.Sprintf("TABLE RENAME: %s (schema change)", table))
			delete(dropped, table)
		}
	}

	// Track per-table column drops/adds to distinguish loss from rename.
	droppedCols := map[string]int{}
	addedCols := map[string]int{}
	currentTable := ""
	for _, line := range strings.Split(content, "\n") {
		if m := reAlterTable.FindStringSubmatch(line); m != nil {
			currentTable = strings.ToLower(m[1])
		}
		if m := reDropColumn.FindStringSubmatch(line); m != nil && currentTable != "" {
			droppedCols[currentTable]++
			changes = append(changes, fmt.Sprintf("DROP COLUMN: %s.%s", currentTable, strings.ToLower(m[1])))
		}
		if m := reAddColumn.FindStringSubmatch(line); m != nil && currentTable != "" {
			addedCols[currentTable]++
		}
		if reTypeNarrow.MatchString(line) && currentTable != "" {
			changes = append(changes, fmt.Sprintf("TYPE NARROWING: %s", currentTable))
		}
		if reNotNull.MatchString(line) && reAddColumn.MatchString(line) {
			changes = append(changes, fmt.Sprintf("NOT NULL: %s", currentTable))
		}
	}

	tables := make([]string, 0, len(droppedCols)+len(addedCols))
	seen := map[string]bool{}
	for t := range droppedCols {
		if !seen[t] {
			tables = append(tables, t)
			seen[t] = true
		}
	}
	for t := range addedCols {
		if !seen[t] {
			tables = append(tables, t)
			seen[t] = true
		}
	}
	sort.Strings(tables)
	for _, table := range tables {
		net := droppedCols[table] - addedCols[table]
		switch {
		case net > 0:
			changes = removeColumnDropIndicators(changes, table)
			changes = append(changes, fmt.Sprintf("COLUMN LOSS: %s (net -%d columns)", table, net))
		case droppedCols[table] > 0 && addedCols[table] > 0:
			changes = removeColumnDropIndicators(changes, table)
			changes = append(changes, fmt.Sprintf("COLUMN RENAME: %s (%d dropped, %d added)", table, droppedCols[table], addedCols[table]))
		}
	}

	for _, m := range reTruncateTable.FindAllStringSubmatch(content, -1) {
		changes = append(changes, fmt.Sprintf("TRUNCATE TABLE: %s", strings.ToLower(m[1])))
	}
	for _, m := range reDropConstraint.FindAllStringSubmatch(content, -1) {
		changes = append(changes, fmt.Sprintf("DROP CONSTRAINT: %s", m[1]))
	}
	for _, m := range reDropPolicy.FindAllStringSubmatch(content, -1) {
		changes = append(changes, fmt.Sprintf("DROP POLICY: %s", m[1]))
	}
	for _, m := range reAlterPolicy.FindAllStringSubmatch(content, -1) {
		changes = append(changes, fmt.Sprintf("ALTER POLICY: %s", m[1]))
	}
	for _, m := range reCreatePolicy.FindAllStringSubmatch(content, -1) {
		changes = append(changes, fmt.Sprintf("CREATE POLICY: %s", m[1]))
	}

	if len(changes) == 0 {
		return model.DriftFinding{}, false
	}

	entities := make([]string, 0, len(tables))
	entities = append(entities, tables...)
	for t := range dropped {
		entities = append(entities, t)
	}
	for t := range created {
		entities = append(entities, t)
	}
	entities = dedupeStrings(entities)
	sort.Strings(entities)

	result := risk.ScoreChanges(changes, "database")
	return model.DriftFinding{
		Type:      model.TypeDatabase,
		File:      path,
		Severity:  result.Severity,
		Changes:   changes,
		Reasoning: result.Reasoning,
		Entities:  entities,
		Metadata:  &model.Metadata{TablesAnalyzed: len(dropped) + len(created)},
	}, true
}

func isDMLOnly(content string) bool {
	hasDML := reDML.MatchString(content)
	hasSchema := reSchemaStmt.MatchString(content)
	return hasDML && !hasSchema
}

func removeIndicator(changes []string, indicator string) []string {
	out := changes[:0:0]
	for _, c := range changes {
		if c != indicator {
			out = append(out, c)
		}
	}
	return out
}

func removeColumnDropIndicators(changes []string, table string) []string {
	prefix := fmt.Sprintf("DROP COLUMN: %s.", table)
	out := changes[:0:0]
	for _, c := range changes {
		if !strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// matchGlob implements the spec's glob-to-regex translation: "**/" consumes
// any number of path segments, "*" matches characters within one segment.
func matchGlob(glob, path string) bool {
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

