// normalize.go — path normalization shared by every analyzer and the
// artifact-ID deriver (spec §3: "Path normalization (used everywhere)").
package pathutil

import "strings"

// Normalize applies the canonical transform: backslashes to forward
// slashes, collapse runs of slashes, strip a trailing slash, strip a
// leading "./". It is idempotent: Normalize(Normalize(p)) == Normalize(p).
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")

	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for _, r := range p {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	out := b.String()

	out = strings.TrimPrefix(out, "./")
	out = strings.TrimSuffix(out, "/")
	return out
}
