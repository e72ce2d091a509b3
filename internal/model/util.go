package model

import "strings"

// containsFoldString reports whether needle occurs in haystack, ignoring
// case — the matching rule §4.1 specifies for indicator scanning ("matching
// is case-insensitive and substring-based").
func containsFoldString(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
