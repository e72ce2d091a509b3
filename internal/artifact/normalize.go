// normalize.go — shared table/entity-name normalization, used by both the
// correlation entity strategy and the code analyzer's ORM-table matching
// (spec §9 open question: "implementers should share a single normalization
// function rather than diverging").
package artifact

import "strings"

// commonAffixes are stripped from the start or end of an entity name when
// producing variations (e.g. "tbl_users" / "users_view").
var commonAffixes = []string{"tbl_", "tbl", "_view", "view", "_table", "table"}

// NormalizeEntityName returns the set of normalized variations of an entity
// name (a DB table or a code-level model/identifier) used for fuzzy
// cross-layer matching: the name itself, its singular and plural forms,
// its snake_case and camelCase renderings, and affix-stripped forms. The
// result always contains at least the lowercased input.
func NormalizeEntityName(name string) []string {
	trimmed := strings.TrimSpace(name)
	base := strings.ToLower(trimmed)
	if base == "" {
		return nil
	}

	seen := map[string]bool{}
	var variations []string
	add := func(v string) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variations = append(variations, v)
	}

	add(base)
	add(snakeToCamel(trimmed))
	add(camelToSnake(trimmed))
	add(singularize(base))
	add(pluralize(base))

	for _, affix := range commonAffixes {
		if strings.HasPrefix(base, affix) {
			add(strings.TrimPrefix(base, affix))
		}
		if strings.HasSuffix(base, affix) {
			add(strings.TrimSuffix(base, affix))
		}
	}

	return variations
}

func singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "ses") && len(s) > 3:
		return s[:len(s)-2]
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") && len(s) > 1:
		return s[:len(s)-1]
	default:
		return s
	}
}

func pluralize(s string) string {
	switch {
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s") || strings.HasSuffix(s, "x") || strings.HasSuffix(s, "ch"):
		return s + "es"
	default:
		return s + "s"
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func camelToSnake(s string) string {
	if strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
