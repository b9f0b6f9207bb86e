package titles

import (
	"regexp"
	"strings"
)

type override struct{ key, title string }

var interestOverrides = []override{
	{"us bank na", "US Bank NA"},
	{"u.s. bank na", "US Bank NA"},
	{"capital one", "Capital One NA"},
	{"bank of america", "Bank of America"},
	{"digital federal credit union", "Digital Federal Credit Union"},
	{"fifth third bank", "FIFTH THIRD BANK, N.A"},
	{"discover bank", "Discover Bank"},
	{"goldman sachs bank usa", "Goldman Sachs Bank USA"},
}

var bankWords = []string{"bank", "credit union", "mortgage", "trust", "financial"}

var payerLineJunk = []string{"payer", "recipient", "federal id", "tin", "street", "road", "apt", "zip"}

var (
	capsName        = regexp.MustCompile(`^[A-Z][A-Z\s&.,'-]{5,}$`)
	hasDigit        = regexp.MustCompile(`\d`)
	interestTail    = regexp.MustCompile(`[^\w\s.&'-]+$`)
	dollarTail      = regexp.MustCompile(`\s*\$.*$`)
	pipeTail        = regexp.MustCompile(`\s*\|.*$`)
	formWord        = regexp.MustCompile(`\bform\b`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	orgSuffix       = regexp.MustCompile(`(?i)\b(?:LLC|Inc|Fund|Trust|Bank|Corp|Company|Services|Advisors)\b`)
	nonAlnumSpace   = regexp.MustCompile(`[^a-z0-9\s]`)
	dividendHeaders = []string{"payer's name", "street address", "city or town", "state or province", "country", "zip", "telephone"}
)

// InterestPayer resolves the bank or institution that issued a 1099-INT
func InterestPayer(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, o := range interestOverrides {
		if strings.Contains(lower, o.key) {
			return o.title, true
		}
	}

	lines := nonEmptyLines(text)
	for _, cand := range lines {
		if hasAny(strings.ToLower(cand), bankWords...) {
			return strings.TrimSpace(trailingJunk.ReplaceAllString(cand, "")), true
		}
	}

	lowerLines := lowerAll(lines)
	for i, l := range lowerLines {
		header := (strings.Contains(l, "payer") && strings.Contains(l, "information")) ||
			(strings.Contains(l, "foreign postal code") && strings.Contains(l, "telephone"))
		if !header {
			continue
		}
		for off := 1; off < 4 && i+off < len(lines); off++ {
			cand := lines[i+off]
			cl := strings.ToLower(cand)
			if hasAny(cl, payerLineJunk...) || leadingBoxLine.MatchString(cand) {
				continue
			}
			if (capsName.MatchString(cand) && !hasDigit.MatchString(cand)) || hasAny(cl, bankWords...) {
				return strings.TrimSpace(interestTail.ReplaceAllString(cand, "")), true
			}
		}
	}
	return "", false
}

var dividendOverrides = []override{
	{"fundrise income real estate fund", "Fundrise Income Real Estate Fund, LLC"},
	{"fundrise income fund", "Fundrise Income Fund, LLC"},
	{"morgan stanley domestic holdings", "Morgan Stanley Domestic Holdings, Inc"},
	{"morgan stanley domestic holding", "Morgan Stanley Domestic Holdings, Inc"},
	{"morgan stanley holdings inc", "Morgan Stanley Domestic Holdings, Inc"},
	{"morgan stanley holdings", "Morgan Stanley Domestic Holdings, Inc"},
}

var dividendLineJunk = []string{
	"foreign postal code", "telephone", "omb", "dividends", "distributions",
	"copy b", "for recipient", "calendar year", "recipient’s tin",
	"payer’s tin", "section", "gain", "tax withheld", "account number",
}

// DividendPayer resolves the payer of a 1099-DIV
func DividendPayer(text string) (string, bool) {
	normalized := squash(nonAlnumSpace.ReplaceAllString(strings.ToLower(text), " "))
	for _, o := range dividendOverrides {
		if strings.Contains(normalized, o.key) {
			return o.title, true
		}
	}

	lines := strings.Split(text, "\n")
	lowerLines := make([]string, len(lines))
	for i, l := range lines {
		lowerLines[i] = strings.NewReplacer("’", "'", "`", "'").Replace(strings.ToLower(l))
	}

	for i, l := range lowerLines {
		if !allOf(l, dividendHeaders) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			cand := pipeTail.ReplaceAllString(strings.TrimSpace(lines[j]), "")
			cand = dollarTail.ReplaceAllString(cand, "")
			cand = strings.TrimSpace(nameTrailJunk.ReplaceAllString(cand, ""))
			if cand != "" {
				return cand, true
			}
		}
	}

	findAfter := func(header func(string) bool) string {
		for i, l := range lowerLines {
			if !header(l) {
				continue
			}
			for j := i + 1; j < len(lines); j++ {
				cand := strings.TrimSpace(lines[j])
				cl := strings.ToLower(cand)
				if cand == "" || hasAny(cl, dividendLineJunk...) || formWord.MatchString(cl) {
					continue
				}
				if len(cand) < 5 || !hasLetter.MatchString(cand) {
					continue
				}
				if orgSuffix.MatchString(cand) {
					return strings.Trim(dollarTail.ReplaceAllString(cand, ""), " ,.-")
				}
				if fb := strings.TrimSpace(nameTrailJunk.ReplaceAllString(cand, "")); fb != "" {
					return fb
				}
			}
		}
		return ""
	}

	if payer := findAfter(func(l string) bool {
		return strings.Contains(l, "payer's name") && strings.Contains(l, "street address")
	}); payer != "" {
		return payer, true
	}
	if recip := findAfter(func(l string) bool {
		return strings.Contains(l, "recipient's name") && strings.Contains(l, "street address")
	}); recip != "" {
		return recip, true
	}
	return "", false
}

func allOf(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

var (
	retirementStop     = regexp.MustCompile(`(?i)(recipient's|account number|department|form\s*1099|treasury|omb\s*no)`)
	retirementOrLine   = regexp.MustCompile(`(?i)^retirement\s*or$`)
	retirementOrTail   = regexp.MustCompile(`(?i)\s*Retirement\s*or\s*$`)
	amountTail         = regexp.MustCompile(`(?i)\$?\d.*$`)
	formTail           = regexp.MustCompile(`(?i)\bForm\s*1099.*$`)
	contractsTail      = regexp.MustCompile(`(?i)\bContracts.*$`)
	insuranceTail      = regexp.MustCompile(`(?i)\bInsurance.*$`)
	threeDigits        = regexp.MustCompile(`\d{3,}`)
	addressWords       = regexp.MustCompile(`(?i)(street|city|state|zip|address|drive|road|way|blvd)`)
	continuationReject = regexp.MustCompile(`(?i)\d|city|state|zip|address|form|recipient|account`)
	capsContinuation   = regexp.MustCompile(`^[A-Z][A-Z\s&.,'-]{3,}$`)
)

// RetirementPayer resolves the plan administrator of a 1099-R
func RetirementPayer(text string) (string, bool) {
	lines := nonEmptyLines(text)
	for i, line := range lines {
		ll := strings.ToLower(line)
		if !((strings.Contains(ll, "country") && strings.Contains(ll, "telephone")) ||
			(strings.Contains(ll, "payer") && strings.Contains(ll, "name"))) {
			continue
		}
		for off := 1; off < 6 && i+off < len(lines); off++ {
			cand := lines[i+off]
			if retirementStop.MatchString(cand) {
				break
			}
			if retirementOrLine.MatchString(cand) {
				continue
			}
			cand = strings.TrimSpace(retirementOrTail.ReplaceAllString(cand, ""))
			cand = amountTail.ReplaceAllString(cand, "")
			cand = formTail.ReplaceAllString(cand, "")
			cand = contractsTail.ReplaceAllString(cand, "")
			cand = insuranceTail.ReplaceAllString(cand, "")
			if threeDigits.MatchString(cand) || addressWords.MatchString(cand) {
				continue
			}
			if i+off+1 < len(lines) {
				next := lines[i+off+1]
				if !continuationReject.MatchString(next) && capsContinuation.MatchString(next) {
					cand = strings.TrimSpace(cand + " " + next)
				}
			}
			if len(strings.Fields(cand)) >= 2 && !hasDigit.MatchString(cand) {
				return titleCase(strings.TrimSpace(cand)), true
			}
		}
		break
	}
	return "", false
}
