// Package configscan implements the application/dependency configuration
// layer analyzer (spec §4.5): secret-redacting key extraction, package
// manifest and lockfile diffing, semantic version comparison, a small fixed
// vulnerability list, and docker-compose/feature-flag key diffing.
//
// Grounded on the teacher's internal/suppression/policy.go style of
// directive-keyword matching, generalized from inline suppression comments
// to config-tree secret-key detection.
package configscan

import "strings"

var secretKeywordCategories = []struct {
	keyword  string
	category string
}{
	{"password", "PAS"},
	{"pwd", "PAS"},
	{"secret", "SEC"},
	{"token", "TOK"},
	{"apikey", "API"},
	{"api_key", "API"},
	{"credential", "CRE"},
	{"private_key", "SEC"},
}

// redactedCategory reports whether key looks like a secret-bearing field
// and, if so, the three-letter category code to substitute it with.
func redactedCategory(key string) (string, bool) {
	lower := strings.ToLower(key)
	for _, kc := range secretKeywordCategories {
		if strings.Contains(lower, kc.keyword) {
			return kc.category, true
		}
	}
	return "", false
}

// KeyPath is one leaf path extracted from a parsed config tree, with its
// key substituted for a redaction marker when it looks secret-bearing.
// Values are never retained — the spec explicitly forbids emitting them.
type KeyPath struct {
	Path      string
	Redacted  bool
}

// ExtractKeyPaths walks tree producing dotted key paths. Secret-bearing
// leaf keys are replaced with "[REDACTED_<CAT>]" in the emitted path; the
// underlying value is discarded regardless.
func ExtractKeyPaths(tree map[string]interface{}) []KeyPath {
	var out []KeyPath
	walkKeys("", tree, &out)
	return out
}

func walkKeys(prefix string, node interface{}, out *[]KeyPath) {
	m, ok := node.(map[string]interface{})
	if !ok {
		return
	}
	for key, value := range m {
		segment := key
		redacted := false
		if cat, ok := redactedCategory(key); ok {
			segment = "[REDACTED_" + cat + "]"
			redacted = true
		}
		path := segment
		if prefix != "" {
			path = prefix + "." + segment
		}
		*out = append(*out, KeyPath{Path: path, Redacted: redacted})
		if child, ok := value.(map[string]interface{}); ok {
			walkKeys(path, child, out)
		}
	}
}

// DiffKeys compares two extracted key-path sets and returns
// CONFIG_KEY_{ADDED,REMOVED} / SECRET_KEY_{ADDED,REMOVED} indicator tokens
// (spec §4.5).
func DiffKeys(base, head []KeyPath) []string {
	baseSet := map[string]bool{}
	baseRedacted := map[string]bool{}
	for _, k := range base {
		baseSet[k.Path] = true
		baseRedacted[k.Path] = k.Redacted
	}
	headSet := map[string]bool{}
	headRedacted := map[string]bool{}
	for _, k := range head {
		headSet[k.Path] = true
		headRedacted[k.Path] = k.Redacted
	}

	var changes []string
	for path := range baseSet {
		if headSet[path] {
			continue
		}
		if baseRedacted[path] {
			changes = append(changes, "SECRET_KEY_REMOVED: "+path)
		} else {
			changes = append(changes, "CONFIG_KEY_REMOVED: "+path)
		}
	}
	for path := range headSet {
		if baseSet[path] {
			continue
		}
		if headRedacted[path] {
			changes = append(changes, "SECRET_KEY_ADDED: "+path)
		} else {
			changes = append(changes, "CONFIG_KEY_ADDED: "+path)
		}
	}
	return changes
}
