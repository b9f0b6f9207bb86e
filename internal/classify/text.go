package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Text holds the normalized views of one page's text that the rules match against.
// Raw is NFKC-folded so OCR ligatures and full-width digits compare as ASCII.
type Text struct {
	Raw       string
	Lower     string
	Collapsed string
	Compact   string
	Alnum     string
}

// NewText prepares page text for rule evaluation
func NewText(s string) *Text {
	raw := norm.NFKC.String(s)
	lower := strings.ToLower(raw)
	return &Text{
		Raw:       raw,
		Lower:     lower,
		Collapsed: strings.TrimSpace(whitespaceRun.ReplaceAllString(lower, " ")),
		Compact:   whitespaceRun.ReplaceAllString(lower, ""),
		Alnum:     nonAlnum.ReplaceAllString(lower, ""),
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}
