package match

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and drops the separators '-', '_', '.', ':' and
// spaces.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '_', '.', ':', ' ':
		return true
	default:
		return false
	}
}
