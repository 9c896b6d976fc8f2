package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName turns a song title into a portable file name stem. Path
// separators, ':' and '*' become '-', other reserved and control characters
// are removed, whitespace runs collapse to one space, and trailing dots are
// trimmed.
func SanitizeFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*':
			return '-'
		case strings.ContainsRune(`?"<>|`, r):
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	return strings.TrimRight(strings.Join(strings.Fields(mapped), " "), ".")
}
