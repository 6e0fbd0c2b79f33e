package utils

import (
	"unicode"
	"unicode/utf8"
)

// ContainsControl reports whether s holds control characters such as
// newlines or NUL, which never appear in indexed titles.
func ContainsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsValidQuery checks that s is well-formed UTF-8 without control characters.
// Anything else is matched verbatim; there is no case folding.
func IsValidQuery(s string) bool {
	return utf8.ValidString(s) && !ContainsControl(s)
}

// RuneLen returns the length of s in code points, the unit queries are
// measured in.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
