package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and drops all of its whitespace, so
// "CGV 강남" and "cgv강남" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}

// MatchName reports whether the normalized name contains any of the
// normalized queries. no queries matches everything.
func MatchName(name string, queries ...string) bool {
	if len(queries) == 0 {
		return true
	}
	name = NormalizeName(name)
	for _, q := range queries {
		if strings.Contains(name, NormalizeName(q)) {
			return true
		}
	}
	return false
}
