package openai

import (
	"strings"
	"unicode"
)

// scrubString collapses whitespace runs and drops control characters.
// Punctuation stays: down and distance strings carry "&" and digits that
// the model needs to see.
func scrubString(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pending = true
		case unicode.IsControl(r):
			// drop
		default:
			if pending && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pending = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeTag canonicalizes a model-emitted tag to the lowercase
// hyphenated form the tag rules use.
func normalizeTag(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}
