package titles

import (
	"regexp"
	"strings"
)

var issuerOverrides = []lenderOverride{
	{regexp.MustCompile(`(?i)morgan\s+stanley\s+capital\s+management,\s*llc`), "Morgan Stanley Capital Management, LLC"},
	{regexp.MustCompile(`(?i)robinhood\s+markets?\s+inc`), "Robinhood Markets Inc"},
}

var (
	issuerLineSkip = regexp.MustCompile(`(?i)(?:form|1099|copy|page|\baccount\b)`)
	issuerLineName = regexp.MustCompile(`(?:LLC|Bank|Securities|Wealth|Brokerage|Advisors?)`)
)

// issuerAliases maps lower-cased legal names to the brand shown in the outline
var issuerAliases = map[string]string{
	"morgan stanley capital management, llc": "E*TRADE",
}

// Issuer extracts the brokerage named on a consolidated 1099 statement page
func Issuer(text string) (string, bool) {
	for _, o := range issuerOverrides {
		if o.pattern.MatchString(text) {
			return o.title, true
		}
	}
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "consolidated 1099") && !strings.Contains(lower, "composite 1099") {
		return "", false
	}
	for _, l := range nonEmptyLines(text) {
		if issuerLineSkip.MatchString(l) || !issuerLineName.MatchString(l) {
			continue
		}
		if name := strings.TrimSpace(nameTrailJunk.ReplaceAllString(l, "")); name != "" {
			return name, true
		}
	}
	return "", false
}

// Alias returns the display name for an issuer, or the issuer unchanged
func Alias(issuer string) string {
	if alias, ok := issuerAliases[strings.ToLower(strings.TrimSpace(issuer))]; ok {
		return alias
	}
	return issuer
}
