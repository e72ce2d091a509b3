package pathutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"a/b/c":            "a/b/c",
		"a\\b\\c":          "a/b/c",
		"./a/b":            "a/b",
		"a//b///c":         "a/b/c",
		"a/b/":             "a/b",
		"./a/b///c/":       "a/b/c",
		"":                 "",
		"a":                "a",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"a\\b//c/", "./x/y/", "plain", "a//b\\c//d/"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	seeds := []string{"a/b/c", "a\\b\\c", "./a/b", "a//b///c", "", "////", "...", "a/./b"}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	})
}
