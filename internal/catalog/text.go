package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower lower-cases s without locale-specific rules.
// A Caser carries state, so one is built per call.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Tokens lower-cases s and splits it on runs of whitespace. Empty tokens are
// never returned.
func Tokens(s string) []string {
	return strings.Fields(Lower(s))
}

// ContainsFold reports whether token (already lower-cased) occurs in the
// lower-cased form of s.
func ContainsFold(s, token string) bool {
	return strings.Contains(Lower(s), token)
}
