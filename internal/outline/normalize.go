package outline

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims the text and collapses every whitespace run,
// line breaks included, into a single space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKey is the comparison form used for dedup and title matching:
// compatibility-normalised, case-folded, whitespace-collapsed.
func NormalizeKey(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return NormalizeText(s)
}

var digitRun = regexp.MustCompile(`\d+`)

// runningKey masks digits so "Page 3" and "Page 4" compare equal.
func runningKey(s string) string {
	return digitRun.ReplaceAllString(NormalizeKey(s), "#")
}
