// Package textsearch holds the case-insensitive substring matching shared by
// route and station search.
package textsearch

import (
	"strings"
	"unicode/utf16"
)

// MinQueryLength is the shortest query that produces results. Single
// characters match almost everything and are rejected.
const MinQueryLength = 2

// Length returns the length of s in UTF-16 code units, the unit search boxes
// report to the backend.
func Length(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Prepare lowercases query for matching. It reports false when the raw,
// untrimmed query is shorter than MinQueryLength.
func Prepare(query string) (string, bool) {
	if Length(query) < MinQueryLength {
		return "", false
	}
	return strings.ToLower(query), true
}

// ContainsAny reports whether lowerQuery is a substring of any field after
// lowercasing it.
func ContainsAny(lowerQuery string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}
