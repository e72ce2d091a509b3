package configscan

import (
	"regexp"
	"strings"

	"sigs.k8s.io/yaml"
)

// matchesSimpleGlob applies the same "**/" / "*" translation used by the
// other analyzers (spec's glob-to-regex rule, repeated here rather than
// shared across packages to keep each analyzer self-contained per the
// teacher's per-adapter style).
func matchesSimpleGlob(glob, path string) bool {
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

// parseGenericTree decodes arbitrary JSON or YAML content (both parse
// through sigs.k8s.io/yaml) into a generic map for key-path extraction.
func parseGenericTree(content []byte) map[string]interface{} {
	if len(content) == 0 {
		return nil
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(content, &tree); err != nil {
		return nil
	}
	return tree
}
