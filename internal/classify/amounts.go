package classify

import (
	"regexp"
	"strings"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/shopspring/decimal"
)

// Amounts summarizes the labelled currency fields found for one form
type Amounts struct {
	// Matched counts fields whose amount parsed as a decimal
	Matched int
	// Nonzero is true when at least one parsed amount is not zero
	Nonzero bool
}

// AllZero reports whether fields were found and every one of them was zero
func (a Amounts) AllZero() bool {
	return a.Matched > 0 && !a.Nonzero
}

// amountGates holds the box-label patterns per gated form. Each pattern captures
// one amount of the form 1,234.56 and is matched case-insensitively across lines.
var amountGates = map[model.FormType][]*regexp.Regexp{
	model.Form1099MISC: compileAll(
		`(?is)1\.RENTS\s*\$([0-9,]+\.\d{2})`,
		`(?is)2\.ROYALTIES\s*\$([0-9,]+\.\d{2})`,
		`(?is)3\.OTHER INCOME\s*\$([0-9,]+\.\d{2})`,
		`(?is)4\.FEDERAL INCOME TAX WITHHELD\s*\$([0-9,]+\.\d{2})`,
		`(?is)8\.SUBSTITUTE PAYMENTS.*\$\s*([0-9,]+\.\d{2})`,
	),
	model.Form1099OID: compileAll(
		`(?is)1\.ORIGINAL ISSUE DISCOUNT.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)2\.OTHER PERIODIC INTEREST.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)4\.FEDERAL INCOME TAX WITHHELD.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)5\.MARKET DISCOUNT.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)6\.ACQUISITION PREMIUM.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)8\.OID ON.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)9\.INVESTMENT EXPENSES.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)10\.BOND PREMIUM.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)11\.TAX-EXEMPT OID.*\$\s*([0-9,]+\.\d{2})`,
	),
	model.Form1099B: compileAll(
		`(?is)1d\.PROCEEDS.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)COVERED SECURITIES.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)NONCOVERED SECURITIES.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)1e\.COST OR OTHER BASIS.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)1f\.ACCRUED MARKET DISCOUNT.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)1g\.WASH SALE LOSS DISALLOWED.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)4\.FEDERAL INCOME TAX WITHHELD.*\$\s*([0-9,]+\.\d{2})`,
	),
	model.Form1099DIV: compileAll(
		`(?is)1a\s*\.?\s*.*ordinary dividends.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)1b\s*\.?\s*.*qualified dividends.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)2a\s*\.?\s*.*capital gain.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)2b\s*\.?\s*.*1250 gain.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)2c\s*\.?\s*.*1202 gain.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)2d\s*\.?\s*.*collectibles.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)2e\s*\.?\s*.*897 ordinary dividends.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)2f\s*\.?\s*.*897 capital.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)3\s*\.?\s*.*non[- ]?dividend.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)4\s*\.?\s*.*federal income tax withheld.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)5\s*\.?\s*.*199a dividends.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)6\s*\.?\s*.*investment expenses.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)7\s*\.?\s*.*foreign tax paid.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)9\s*\.?\s*.*cash liquidation.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)10\s*\.?\s*.*non[- ]?cash liquidation.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)12\s*\.?\s*.*exempt[- ]?interest dividends.*?\$\s*([0-9,]+\.\d{2})`,
		`(?is)13\s*\.?\s*.*specified private activity.*?\$\s*([0-9,]+\.\d{2})`,
	),
	// 11 is often read as 41 or iS by OCR
	model.Form1099INT: compileAll(
		`(?is)1[\.\-,)]?\s*INTEREST\s+INCOME.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)2[\.\-,)]?\s*EARLY\s+WITHDRAWAL\s+PENALTY.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)3[\.\-,)]?\s*INTEREST\s+ON\s+U\.?S\.?\s+SAVINGS.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)4[\.\-,)]?\s*FEDERAL\s+INCOME\s+TAX\s+WITHHELD.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)5[\.\-,)]?\s*INVESTMENT\s+EXPENSES.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)6[\.\-,)]?\s*FOREIGN\s+TAX\s+PAID.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)8[\.\-,)]?\s*TAX[-\s]*EXEMPT\s+INTEREST.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)9[\.\-,)]?\s*SPECIFIED\s+PRIVATE\s+ACTIVITY.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)10[\.\-,)]?\s*MARKET\s+DISCOUNT.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)(?:11|41|iS)[\.\-,)]?\s*BOND\s+PREMIUM.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)12[\.\-,)]?\s*BOND\s+PREMIUM\s+ON\s+TREASURY.*\$\s*([0-9,]+\.\d{2})`,
		`(?is)13[\.\-,)]?\s*BOND\s+PREMIUM\s+ON\s+TAX[-\s]*EXEMPT.*\$\s*([0-9,]+\.\d{2})`,
	),
}

var brokerTermHeaders = []string{
	"short-term gains or (losses)",
	"long-term gains or (losses)",
	"unknown term",
}

var brokerSummaryHeaders = []string{
	"short a", "short b", "short c",
	"long d", "long e", "long f",
	"total short-term", "total long-term", "total undetermined",
}

// CheckAmounts evaluates the currency fields of a gated form. Forms without a
// gate report zero matches. Amounts that fail to parse are skipped.
func CheckAmounts(form model.FormType, text string) Amounts {
	var a Amounts
	for _, re := range amountGates[form] {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		a.Matched++
		if !d.IsZero() {
			a.Nonzero = true
		}
	}
	return a
}

// Confirmed reports whether a gated form is really present on the page: a
// nonzero amount, or for 1099-B a structural summary marker.
func Confirmed(form model.FormType, text string) bool {
	if CheckAmounts(form, text).Nonzero {
		return true
	}
	if form != model.Form1099B {
		return false
	}
	return hasBrokerStructure(strings.ToLower(text))
}

func hasBrokerStructure(lower string) bool {
	if containsAny(lower, brokerTermHeaders) && strings.Contains(lower, "form 8949") {
		return true
	}
	return containsAny(lower, brokerSummaryHeaders)
}
