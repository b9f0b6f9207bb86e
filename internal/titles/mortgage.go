package titles

import (
	"regexp"
	"strings"
)

type lenderOverride struct {
	pattern *regexp.Regexp
	title   string
}

var lenderOverrides = []lenderOverride{
	{regexp.MustCompile(`(?i)\bphh\s+mortgage\s+corporation\b`), "PHH MORTGAGE CORPORATION"},
	{regexp.MustCompile(`(?i)rocket\s+mortgage`), "ROCKET MORTGAGE LLC"},
	{regexp.MustCompile(`(?i)dovenmuehle\s+mortgage`), "DOVENMUEHLE MORTGAGE, INC"},
	{regexp.MustCompile(`(?i)\bhuntington\s+national\s+bank\b`), "THE HUNTINGTON NATIONAL BANK"},
	{regexp.MustCompile(`(?i)\bunited\s+nations\s+fcu\b`), "UNITED NATIONS FCU"},
	{regexp.MustCompile(`(?i)\bloan\s*depot\s*com\s*llc\b`), "LOANDEPOT.COM LLC"},
	{regexp.MustCompile(`(?i)jp\s*morgan\s+chase`), "JPMORGAN CHASE BANK, N.A."},
	{regexp.MustCompile(`(?i)\bfor\s+return\s+service\s+only\b`), "FOR RETURN SERVICE ONLY"},
	{regexp.MustCompile(`(?i)cit[i1l]zens?\s*(?:bank|banx|banc)`), "CITIZENS BANK, N.A."},
}

var (
	postalHeaderJunk  = regexp.MustCompile(`(?i)and\s+the\s+cost.*|Form.*|OMB.*|Department.*|Treasury.*|Caution.*|may\s+not\s+be\s+fully\s+deductible.*|Limits\s+based.*|1\s*0*98\s*Mortgage.*|Interest\s+Received\s+From.*|Outstanding\s+Mortgage.*|Payer.*|Borrower.*|Box\s*\d+`)
	lenderWords       = regexp.MustCompile(`(?i)(?:llc|bank|mortgage|servicing|fcu|trust|credit|dba|company|corp)`)
	lenderContinues   = regexp.MustCompile(`(?i)(?:mortgage|servicing|bank|llc|trust|credit|company|dba|corp|inc)`)
	recipientSplit    = regexp.MustCompile(`(?i)may\s+not\s+be\s+fully\s+deductible|OMB|Form|Department|Treasury|Caution`)
	recipientLender   = regexp.MustCompile(`(?i)(?:bank|mortgage|servicing|loan|llc|fcu|credit|trust)`)
	recipientNextJunk = regexp.MustCompile(`(?i)may\s+not\s+be\s+fully\s+deductible.*|OMB.*|Form.*|Department.*|Treasury.*|Caution.*`)
	threeLetters      = regexp.MustCompile(`[A-Za-z]{3,}`)
	postalSplit       = regexp.MustCompile(`(?i)limits\s+based|may\s+not\s+be\s+fully\s+deductible|OMB|Form|Department|Treasury|Caution`)
	postalLender      = regexp.MustCompile(`(?i)(?:bank|mortgage|servicing|loan|llc|fcu|credit|trust|dba|company|corp)`)
	postalNextJunk    = regexp.MustCompile(`(?i)and\s+the\s+cost.*|Form.*|OMB.*|Department.*|Treasury.*|Caution.*|may\s+not\s+be\s+fully\s+deductible.*`)
	postalContinues   = regexp.MustCompile(`(?i)(?:mortgage|servicing|bank|llc|fcu|credit|company|association|trust|loan)`)
	fcuWord           = regexp.MustCompile(`(?i)\bfcu\b`)
	fcuPrefix         = regexp.MustCompile(`(?i)(.*?FCU)\b`)
	globalLender      = regexp.MustCompile(`(?i)(?:bank|mortgage|servicing|llc|fcu|trust|corp|company|association|credit|dba|corporation)`)
	globalSkip        = regexp.MustCompile(`(?i)(?:department of the treasury|irs|payer|borrower|form 1098|instructions)`)
	globalClean       = regexp.MustCompile(`[^A-Za-z0-9&.,' ]+`)
)

// Lender resolves the mortgage servicer that issued a 1098
func Lender(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for _, o := range lenderOverrides {
		for _, l := range lines {
			if o.pattern.MatchString(l) {
				return finalizeLender(o.title)
			}
		}
	}

	for i, line := range lines {
		ll := strings.ToLower(line)
		if !(strings.Contains(ll, "foreign postal code") && strings.Contains(ll, "mortgage")) {
			continue
		}
		for j := 1; j < 5 && i+j < len(lines); j++ {
			next := strings.Trim(postalHeaderJunk.ReplaceAllString(strings.TrimSpace(lines[i+j]), ""), " *-,")
			if len(next) < 4 || !lenderWords.MatchString(next) {
				continue
			}
			merged := next
			for k := 1; k < 3 && i+j+k < len(lines); k++ {
				cont := strings.TrimSpace(lines[i+j+k])
				if !lenderContinues.MatchString(cont) {
					break
				}
				merged += " " + cont
			}
			return finalizeLender(merged)
		}
	}

	for i, line := range lines {
		ll := strings.ToLower(line)
		if !(strings.Contains(ll, "recipient") && strings.Contains(ll, "lender") && strings.Contains(ll, "telephone")) {
			continue
		}
		if recipientLender.MatchString(line) {
			cleaned := strings.Trim(recipientSplit.Split(line, 2)[0], " *-,")
			if len(cleaned) > 5 && threeLetters.MatchString(cleaned) {
				return finalizeLender(cleaned)
			}
		}
		if i+1 < len(lines) {
			next := strings.Trim(recipientNextJunk.ReplaceAllString(strings.TrimSpace(lines[i+1]), ""), " *-,")
			if recipientLender.MatchString(next) {
				return finalizeLender(next)
			}
		}
	}

	for i, line := range lines {
		ll := strings.ToLower(line)
		if !(strings.Contains(ll, "foreign postal code") && strings.Contains(ll, "telephone")) {
			continue
		}
		if postalLender.MatchString(line) {
			cleaned := strings.Trim(postalSplit.Split(line, 2)[0], " *-,")
			if len(cleaned) > 5 && threeLetters.MatchString(cleaned) {
				return finalizeLender(cleaned)
			}
		}
		if i+1 < len(lines) {
			next := strings.Trim(postalNextJunk.ReplaceAllString(strings.TrimSpace(lines[i+1]), ""), " *-,")
			if postalLender.MatchString(next) {
				if i+2 < len(lines) {
					if cont := strings.TrimSpace(lines[i+2]); postalContinues.MatchString(cont) {
						next = next + " " + cont
					}
				}
				return finalizeLender(next)
			}
		}
	}

	for _, l := range lines {
		if fcuWord.MatchString(l) {
			title := strings.TrimSpace(l)
			if m := fcuPrefix.FindStringSubmatch(l); m != nil {
				title = m[1]
			}
			return finalizeLender(title)
		}
	}

	for _, l := range lines {
		if !globalLender.MatchString(l) || globalSkip.MatchString(l) {
			continue
		}
		if clean := strings.TrimSpace(globalClean.ReplaceAllString(l, " ")); len(clean) > 8 {
			return finalizeLender(clean)
		}
	}
	return "", false
}

var (
	bookmarkJunkChars = regexp.MustCompile(`[^\w\s.&-]`)
	leadingBoiler     = regexp.MustCompile(`(?i)^(?:limits\s+based.*?|caution[:\s].*?|may\s+not\s+be\s+fully\s+deductible.*?)\b`)
	trailingBoiler    = regexp.MustCompile(`(?i)\b(?:and\s+the\s+cost.*|may\s+apply.*|you\s+may\s+only.*)$`)
	genericHeader     = regexp.MustCompile(`(?i)^(?:form\s*)?1098\s*mortgage\b|\bmortgage\s+interest\s+statement\b`)
	servicingSegment  = regexp.MustCompile(`(?i)([A-Z][A-Za-z0-9&.,'\- ]*?\b(?:MORTGAGE\s+SERVICING|MORTGAGE\s+COMPANY|MORTGAGE\s+BANK|MORTGAGE\s+GROUP)\b[^\n,]*)`)
	legalSuffix       = regexp.MustCompile(`(?i)\b(?:LLC|INC\.?|N\.A\.|BANK|SERVICING|COMPANY|CORP\.?|FCU|ASSOCIATION|CORPORATION)\b`)
	mortgageWord      = regexp.MustCompile(`(?i)\bmortgage\b`)
	irsWord           = regexp.MustCompile(`(?i)\birs\b`)
)

var lenderNoise = []string{
	"not be fully deductible",
	"limits based on",
	"interest received from",
	"outstanding mortgage principal",
	"payer",
	"borrower",
	"department of the treasury",
}

// smart-case fixes applied after title casing
var lenderCase = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\bLlc\b`), "LLC"},
	{regexp.MustCompile(`\bInc\b\.?`), "INC"},
	{regexp.MustCompile(`\bCorp\b\.?`), "CORP"},
	{regexp.MustCompile(`\bFcu\b`), "FCU"},
	{regexp.MustCompile(`\bDba\b`), "DBA"},
	{regexp.MustCompile(`\bN\.?A\b\.?`), "N.A."},
	{regexp.MustCompile(`\bUsa\b`), "USA"},
}

// finalizeLender strips form boilerplate around a lender name and applies
// title case while keeping legal suffixes upper-case.
func finalizeLender(s string) (string, bool) {
	s = strings.TrimSpace(bookmarkJunkChars.ReplaceAllString(strings.TrimSpace(s), ""))
	s = strings.Trim(leadingBoiler.ReplaceAllString(s, ""), " ,.-")
	s = strings.Trim(trailingBoiler.ReplaceAllString(s, ""), " ,.-")
	s = strings.Trim(genericHeader.ReplaceAllString(s, ""), " ,.-")
	if m := servicingSegment.FindStringSubmatch(s); m != nil {
		s = strings.Trim(m[1], " ,.-")
	}
	if !legalSuffix.MatchString(s) {
		s = strings.Trim(squash(mortgageWord.ReplaceAllString(s, "")), " ,.-")
	}

	low := strings.ToLower(s)
	cut := -1
	for _, marker := range lenderNoise {
		if idx := strings.Index(low, marker); idx != -1 {
			cut = idx
			break
		}
	}
	if cut == -1 {
		if loc := irsWord.FindStringIndex(s); loc != nil {
			cut = loc[0]
		}
	}
	if cut != -1 {
		s = strings.Trim(s[:cut], " ,.-")
	}

	s = titleCase(strings.Trim(squash(s), " ,.-"))
	for _, c := range lenderCase {
		s = c.pattern.ReplaceAllString(s, c.repl)
	}
	return s, s != ""
}
