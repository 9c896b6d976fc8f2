package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeDocument lowercases text, strips every character outside
// [a-z0-9\s'], and splits the remainder into words.
func NormalizeDocument(text string) []string {
	return strings.Fields(NormalizeToken(text))
}

// NormalizeToken lowercases a single word and strips characters outside
// [a-z0-9\s'] without splitting or trimming.
func NormalizeToken(text string) string {
	if text == "" {
		return ""
	}
	lowered := cases.Lower(language.Und).String(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '\'':
		return true
	default:
		return unicode.IsSpace(r)
	}
}
