package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// socialTitleMaxLen caps social post titles; posts are short but quote
// chains are not.
const socialTitleMaxLen = 100

// playKeywords mark a social post as an actual play capture rather than
// commentary or scheduling chatter. Matched case-insensitively.
var playKeywords = []string{
	"play of the day",
	"one play",
	"film room",
	"film study",
	"all-22",
	"breakdown",
	"play action",
	"zone read",
	"counter",
	"screen",
	"rpo",
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

// LikelyPlay reports whether a social post reads like a play capture.
func LikelyPlay(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range playKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SocialTitle turns post text into a record title: links stripped,
// whitespace collapsed, length capped on a rune boundary.
func SocialTitle(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = CleanFragment(text)
	if text == "" {
		return FallbackTitle
	}
	if utf8.RuneCountInString(text) > socialTitleMaxLen {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:socialTitleMaxLen-3])) + "..."
	}
	return text
}
