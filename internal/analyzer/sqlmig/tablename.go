package sqlmig

import "regexp"

var rawStatementTablePattern = regexp.MustCompile(`(?i)\b(?:FROM|INTO|UPDATE)\s+["` + "`" + `\[]?([a-zA-Z0-9_.]+)["` + "`" + `\]]?`)

// FirstTableReference recovers the first table name referenced by a raw
// SQL statement string, for use by the code analyzer when classifying a
// raw-SQL call site (spec §4.6: "raw SQL strings are analyzed with the
// same SQL regex set").
func FirstTableReference(statement string) (string, bool) {
	m := rawStatementTablePattern.FindStringSubmatch(statement)
	if m == nil {
		return "", false
	}
	return m[1], true
}
