package classify

import (
	"regexp"
	"strings"
)

var boilerplatePhrases = []string{
	"understanding your form 1099",
	"year-end messages",
	"important: if your etrade account transitioned",
	"please visit etrade.com/tax",
	"tax forms for robinhood markets",
	"robinhood retirements accounts",
	"new for 2023 tax year",
	"new for 2024 tax year",
	"new for 2025 tax year",
	"that are necessary for tax",
	"please note there may be a slight timing",
	"account statement will not have included",
	// HSA statements
	"fees and interest earnings are not considered",
	"an hsa distribution",
	"death is includible in the account",
	"the account as of the date of death",
	"amount on the account holder",
	// mortgage statements
	"for clients with paid mortgage insurance",
	"you can also contact the",
	"may be requested by the mortgagor",
	"you should contact a competent",
	// brokerage statements
	"tax lot closed on a first in",
	"your form 1099 composite may include the following internal revenue service",
	"schwab provides your form 1099 tax information as early",
	"if you have any questions or need additional information about your",
	"schwab is not providing cost basis",
	"the amount displayed in this column has been adjusted for option premiums",
	"you may select a different cost basis method for your brokerage",
	"to view and change your default cost basis",
	"this information is not intended to be a substitue for specific individualized",
	"shares will be gifted based on your default cost basis",
	"if you sell shares at a loss and buy additional shares",
	"we are required to send you a corrected from with the revisions clearly marked",
	"referenced to indicate individual items that make up the totals appearing",
	"issuers of the securities in your account reallocated certain income distribution",
	"the amount shown may be dividends a corporation paid directly",
	"if this form includes amounts belonging to another person",
	"spouse is not required to file a nominee return to show",
	"character when passed through or distributed to its direct or in",
	"brokers and barter exchanges must report proceeds from",
	"first in first out basis",
	"see the instructions for your schedule d",
	"other property received in a reportable change in control or capital",
}

// pairs of phrases that only mark boilerplate when both appear
var boilerplatePairs = [][2]string{
	{"enclosed is your", "consolidated tax statement"},
	{"filing your taxes", "turbotax"},
	{"details of", "investment activity"},
}

var investmentDetails = regexp.MustCompile(`\b\d{4}\s+investment details`)

// IsBoilerplate reports whether a page carries only year-end letters,
// instructions, or statement filler instead of form data.
func IsBoilerplate(text string) bool {
	return NewText(text).boilerplate()
}

func (t *Text) boilerplate() bool {
	s := t.Collapsed
	if containsAny(s, boilerplatePhrases) {
		return true
	}
	for _, p := range boilerplatePairs {
		if strings.Contains(s, p[0]) && strings.Contains(s, p[1]) {
			return true
		}
	}
	return investmentDetails.MatchString(s)
}
