// Package correlate implements the candidate-pair correlation engine (spec
// §4.7, §5, §9): strategy fan-out, budget-bounded candidate selection,
// signal aggregation, and user-defined rule resolution.
package correlate

import (
	"regexp"
	"strings"

	"github.com/brennhill/driftlens/internal/config"
)

// ruleMatch reports whether token resolves to artifactID. Exact equality is
// checked first; a token containing `*` or `?` then matches only as a
// case-insensitive glob; any other token matches by case-insensitive
// substring containment (spec §5.5: "source/target tokens may be exact
// artifact IDs, substrings, or glob patterns").
func ruleMatch(token, artifactID string) bool {
	if token == artifactID {
		return true
	}
	lowerToken, lowerID := strings.ToLower(token), strings.ToLower(artifactID)
	if strings.ContainsAny(token, "*?") {
		if re, ok := globToRegexp(lowerToken); ok {
			return re.MatchString(lowerID)
		}
	}
	return strings.Contains(lowerID, lowerToken)
}

func globToRegexp(glob string) (*regexp.Regexp, bool) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, false
	}
	return re, true
}

// resolvedRule is a UserRule paired with the two artifact IDs it resolved
// to for one specific candidate pair.
type resolvedRule struct {
	rule config.UserRule
	a, b string
}

// matchRules returns every configured user rule whose source/target tokens
// both resolve against the pair (a, b), checked in both orientations since
// rules are undirected once applied (spec §5.5).
func matchRules(rules []config.UserRule, a, b string) []resolvedRule {
	var out []resolvedRule
	for _, r := range rules {
		if ruleMatch(r.Source, a) && ruleMatch(r.Target, b) {
			out = append(out, resolvedRule{rule: r, a: a, b: b})
			continue
		}
		if ruleMatch(r.Source, b) && ruleMatch(r.Target, a) {
			out = append(out, resolvedRule{rule: r, a: b, b: a})
		}
	}
	return out
}

// criticalToken reports whether a change token is severe enough that a
// user-defined ignore rule must not suppress its correlation (spec §5.5's
// safety rail, mirroring the risk scorer's critical-indicator rail).
func criticalToken(token string) bool {
	upper := strings.ToUpper(token)
	for _, needle := range []string{"DROP TABLE", "DROP COLUMN", "TRUNCATE", "CVE-", "0.0.0.0/0"} {
		if strings.Contains(upper, needle) {
			return true
		}
	}
	return false
}
