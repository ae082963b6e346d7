package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fieldside/playvault/core"
)

// FallbackTitle is used when no title strategy yields an acceptable result.
const FallbackTitle = "Untitled Play"

// Accepted title length window, applied to cleaned text. Both bounds are
// exclusive: shorter candidates are navigation crumbs and button labels,
// longer ones are entire paragraphs the template failed to close.
const (
	titleMinLen = 20
	titleMaxLen = 200
)

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// titleStrategy is one rung of the title cascade. A strategy either
// produces an acceptable title or yields to the next one.
type titleStrategy struct {
	name    string
	pattern *regexp.Regexp
	accept  func(cleaned string) bool
}

// Cascade order is priority order; the first acceptable candidate wins.
var titleStrategies = []titleStrategy{
	{
		// Dedicated preview region some templates render above the fold.
		name:    "preview",
		pattern: regexp.MustCompile(`(?is)<div[^>]*class="[^"]*(?:preheader|preview)[^"]*"[^>]*>(.*?)</div>`),
	},
	{
		// Leading content heading.
		name:    "heading",
		pattern: regexp.MustCompile(`(?is)<h[12][^>]*>(.*?)</h[12]>`),
	},
	{
		// Emphasized line carrying a four-digit year; the oldest templates
		// put the play title in bold with its season.
		name:    "emphasized-year",
		pattern: regexp.MustCompile(`(?is)<(?:b|strong)[^>]*>(.*?)</(?:b|strong)>`),
		accept:  yearPattern.MatchString,
	},
}

// Title walks the cascade in priority order and returns the first candidate
// whose cleaned text passes the length window. ok is false when every
// strategy misses; callers fall back to FallbackTitle.
func Title(markup string) (string, bool) {
	for _, strategy := range titleStrategies {
		for _, m := range strategy.pattern.FindAllStringSubmatch(markup, -1) {
			text := CleanFragment(m[1])
			if strategy.accept != nil && !strategy.accept(text) {
				continue
			}
			if len(text) > titleMinLen && len(text) < titleMaxLen {
				return text, true
			}
		}
	}
	return "", false
}

var dateHeaderPattern = regexp.MustCompile(`Date:\s*([^\n<]+)`)

// DateHeader pulls the first Date: header value out of raw markup.
// Returns "" when the source carries none.
func DateHeader(markup string) string {
	if m := dateHeaderPattern.FindStringSubmatch(markup); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// dateRules is the ordered list of header layouts seen across source
// generations. time.Parse is strict about day padding, so the unpadded
// variants are spelled out.
var dateRules = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	core.DateLayout,
}

// ParseDateHeader normalizes a date header to YYYY-MM-DD. ok is false
// when the header is empty or matches no known layout.
func ParseDateHeader(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	for _, layout := range dateRules {
		if t, err := time.Parse(layout, header); err == nil {
			return t.Format(core.DateLayout), true
		}
	}
	return "", false
}

// CaptureDate normalizes a source-provided date header to YYYY-MM-DD.
// An empty or unparseable header falls back to the current day; date
// extraction never fails an item.
func CaptureDate(header string, now func() time.Time) string {
	if date, ok := ParseDateHeader(header); ok {
		return date
	}
	if now == nil {
		now = time.Now
	}
	return now().Format(core.DateLayout)
}

// attributeRule binds a canonical attribute key to the label pattern that
// announces it in digest markup.
type attributeRule struct {
	key   string
	label string
}

var attributeRules = []attributeRule{
	{key: core.AttrDownAndDistance, label: `Down\s*&(?:amp;)?\s*Distance`},
	{key: core.AttrPersonnel, label: `Personnel`},
	{key: core.AttrFormation, label: `Formation`},
}

type attributeMatcher struct {
	key     string
	strict  *regexp.Regexp
	lenient *regexp.Regexp
}

var attributeMatchers = buildAttributeMatchers()

func buildAttributeMatchers() []attributeMatcher {
	matchers := make([]attributeMatcher, 0, len(attributeRules))
	for _, rule := range attributeRules {
		matchers = append(matchers, attributeMatcher{
			key: rule.key,
			// Newer templates close the label's emphasis tag before the
			// value: <strong>Personnel:</strong> 11p
			strict: regexp.MustCompile(`(?is)` + rule.label + `[:\s]*</[a-z][^>]*>[:\s]*(?:<[^>]+>\s*)*([^|<]+)`),
			// Older templates run label and value together in one text
			// node: Personnel: 11p | Formation: ...
			lenient: regexp.MustCompile(`(?is)` + rule.label + `[:\s]*([^|<]+)`),
		})
	}
	return matchers
}

// Attributes extracts the known attribute values from markup. Every known
// key is present in the result, with "" where nothing matched. A value
// runs to the first pipe, the next markup boundary, or end of input.
func Attributes(markup string) map[string]string {
	attrs := make(map[string]string, len(attributeMatchers))
	for _, m := range attributeMatchers {
		attrs[m.key] = firstMatch(markup, m.strict, m.lenient)
	}
	return attrs
}

var alnumPattern = regexp.MustCompile(`[0-9A-Za-z]`)

func firstMatch(markup string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(markup, -1) {
			// Stray delimiters can produce punctuation-only captures; a
			// value without a single letter or digit is not a value.
			if value := CleanFragment(m[1]); alnumPattern.MatchString(value) {
				return value
			}
		}
	}
	return ""
}

var (
	numberAfterHash = regexp.MustCompile(`#\s*(\d+)`)
	trailingNumber  = regexp.MustCompile(`(\d+)\s*$`)
)

// PlayNumber pulls the sequential play number out of a mail subject line
// ("One Play a Day #737"). ok is false when the subject carries no usable
// number.
func PlayNumber(subject string) (int64, bool) {
	for _, p := range []*regexp.Regexp{numberAfterHash, trailingNumber} {
		if m := p.FindStringSubmatch(subject); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
