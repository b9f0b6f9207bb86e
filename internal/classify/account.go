package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// accountPatterns are tried in order; the first capture containing a digit wins
var accountPatterns = compileAll(
	`(?i)Account\s*Number[:\s]*([\d\-]+)`,
	`(?i)Account Number[:\s]*([\d\s]+)`,
	`(?i)ORIGINAL[:\s]*([\d\s]+)`,
	`(?i)Account\s+(\d+)`,
)

var tuitionStatement = regexp.MustCompile(`(?i)1098[-\s]*t`)

// AccountNumber extracts a brokerage account number from page text. It returns
// an empty string when no pattern yields digits.
func AccountNumber(text string) string {
	for _, re := range accountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		acct := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, m[1])
		if strings.IndexFunc(acct, unicode.IsDigit) >= 0 {
			return acct
		}
	}
	return ""
}

// ConsolidationEligible reports whether a page with an account number may join
// a consolidated 1099 statement. Tuition statements share the account format
// and are kept out.
func ConsolidationEligible(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "1099") && !tuitionStatement.MatchString(lower)
}
