package utils

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// ContainsFold reports whether substr is within s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsAnyKeyword performs case-insensitive substring matching of the
// text against every keyword. Keywords are expected in lower case.
func ContainsAnyKeyword(text string, keywords []string) bool {
	textLower := strings.ToLower(text)
	return pie.Any(keywords, func(keyword string) bool {
		return keyword != "" && strings.Contains(textLower, keyword)
	})
}

// FirstMatchingSet returns the index of the first keyword set that matches
// the text, or -1 when none does. Sets are checked in order so earlier
// sets take priority.
func FirstMatchingSet(text string, sets [][]string) int {
	return pie.FindFirstUsing(sets, func(keywords []string) bool {
		return ContainsAnyKeyword(text, keywords)
	})
}

// EqualsAnyFold reports whether text equals one of the candidates,
// ignoring case
func EqualsAnyFold(text string, candidates ...string) bool {
	return pie.Any(candidates, func(candidate string) bool {
		return strings.EqualFold(text, candidate)
	})
}
