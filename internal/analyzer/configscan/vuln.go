package configscan

import "strings"

// vulnRule is one entry in the fixed, transparent vulnerability list (spec
// §4.5, §9: "deliberately tiny... implementers should not silently expand
// it"). An empty predicate matches any version of the named package.
type vulnRule struct {
	name      string
	predicate func(version string) bool
}

var vulnRules = []vulnRule{
	{name: "event-stream", predicate: anyVersion},
	{name: "flatmap-stream", predicate: anyVersion},
	{name: "eslint-scope", predicate: exactly("3.7.2")},
	{name: "bootstrap", predicate: lessThan("3.4.0")},
	{name: "lodash", predicate: lessThan("4.17.11")},
}

func anyVersion(string) bool { return true }

func exactly(target string) func(string) bool {
	t := parseSemver(target)
	return func(v string) bool {
		p := parseSemver(v)
		return p.ok && compareSemver(p, t) == 0
	}
}

func lessThan(target string) func(string) bool {
	t := parseSemver(target)
	return func(v string) bool {
		p := parseSemver(v)
		return p.ok && compareSemver(p, t) < 0
	}
}

// matchVulnerable returns the matching rule name for packageName/version,
// if any.
func matchVulnerable(packageName, version string) (string, bool) {
	for _, r := range vulnRules {
		if strings.EqualFold(r.name, packageName) && (r.predicate == nil || r.predicate(version)) {
			return r.name, true
		}
	}
	return "", false
}
