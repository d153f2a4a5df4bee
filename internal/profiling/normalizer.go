package profiling

import (
	"regexp"
	"strings"
)

var (
	quotedLiteral  = regexp.MustCompile(`'[^']*'`)
	numericLiteral = regexp.MustCompile(`\b\d+\b`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// NormalizePattern reduces a statement to its structural shape: quoted and
// numeric literals become placeholders and whitespace runs collapse to a
// single space. Statements that differ only in bound values normalize to the
// same string.
func NormalizePattern(statement string) string {
	s := quotedLiteral.ReplaceAllString(statement, "'?'")
	s = numericLiteral.ReplaceAllString(s, "?")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
