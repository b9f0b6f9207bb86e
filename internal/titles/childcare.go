package titles

import (
	"regexp"
	"strings"
)

// DefaultChildCareTitle is used when a child care receipt names no provider
const DefaultChildCareTitle = "Child Care Provider"

var taxIDKeywords = []string{"federal employer id", "fein", "tax id", "ein", "federal tax id"}

var (
	kiddieCare      = regexp.MustCompile(`(?i)\b(?:mykiddiecare|kiddiecare|kiddecare|kiddie\s+care|kidde\s+care)\b`)
	providerInfo    = regexp.MustCompile(`(?i)provider information[:\s]+([A-Z][A-Za-z0-9&\-,.' ]{2,60})`)
	providerName    = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&',.()\- ]{2,80}?(?:School|Schools|Academy|Learning|Center|Preschool|Daycare|Montessori|Care|Steps))\b`)
	capitalizedWord = regexp.MustCompile(`[A-Z][a-z]{2,}`)
	providerWords   = []string{"school", "academy", "learning", "center", "care", "montessori", "steps"}
	headerProviders = regexp.MustCompile(`(?i)public schools|academy|learning center|montessori|daycare|preschool|steps`)
	digitRunTail    = regexp.MustCompile(`\s+\d{3,}.*`)
	addressTail     = regexp.MustCompile(`(?i)\b(?:EIN|Zip|Address|Rd|Road|Street|St|Ave|Avenue|Blvd|Boulevard|Drive|Dr|PA|IL|TX|CA|NJ)\b.*`)
	providerTail    = regexp.MustCompile(`[,.\-]+$`)
)

// HasTaxID reports whether a child care receipt carries a provider tax id.
// Receipts without one are kept in the binder but not bookmarked.
func HasTaxID(text string) bool {
	return hasAny(strings.ToLower(text), taxIDKeywords...)
}

// ChildCareProvider resolves the daycare or school named on a receipt. It
// always succeeds, falling back to DefaultChildCareTitle.
func ChildCareProvider(text string) (string, bool) {
	flat := strings.ReplaceAll(text, "\n", " ")
	if kiddieCare.MatchString(flat) {
		return "Kiddie Care", true
	}
	if m := providerInfo.FindStringSubmatch(flat); m != nil {
		if name := cleanProvider(m[1]); name != "" {
			return name, true
		}
	}
	if m := providerName.FindStringSubmatch(flat); m != nil {
		if name := cleanProvider(m[1]); name != "" {
			return name, true
		}
	}

	lines := nonEmptyLines(text)
	for _, l := range lines {
		if capitalizedWord.MatchString(l) && !threeDigits.MatchString(l) && hasAny(strings.ToLower(l), providerWords...) {
			if name := cleanProvider(l); name != "" {
				return name, true
			}
		}
	}
	for i, l := range lines {
		if i == 10 {
			break
		}
		if strings.Contains(strings.ToLower(l), "re:") || headerProviders.MatchString(l) {
			if name := cleanProvider(l); name != "" {
				return name, true
			}
		}
	}
	return DefaultChildCareTitle, true
}

func cleanProvider(s string) string {
	s = digitRunTail.ReplaceAllString(s, "")
	s = addressTail.ReplaceAllString(s, "")
	s = providerTail.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(s)
}
