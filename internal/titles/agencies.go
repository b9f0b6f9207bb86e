package titles

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const government1099Suffix = " - Form 1099-G"

var (
	governmentForm   = regexp.MustCompile(`(?i)Form\s+1099-?G`)
	governmentHeader = regexp.MustCompile(`(?i)((?:GOVERNMENT|STATE|DEPARTMENT|OFFICE)\s+OF[\s\S]{0,250}?(?:SERVICES|FINANCE|LABOR|TAXATION|REVENUE|EMPLOYMENT|BENEFITS|DIVISION))`)
	// OCR reads "Form" as From, Fom or rom
	governmentFormTail = regexp.MustCompile(`(?i)\b(?:F[\s\W_]*[ro0]{0,2}m?[\s\W_]*1099[\s\W_-]*G.*)$`)
	irsBoilerplate     = regexp.MustCompile(`(?i)(Rev\.?|Cat\.?|www\.irs\.gov).*`)
	trailingPunct      = regexp.MustCompile(`[,:;|\-]+$`)
	pipes              = regexp.MustCompile(`[|]+`)
)

// GovernmentAgency resolves the issuing agency of a 1099-G as
// "<Agency> - Form 1099-G".
func GovernmentAgency(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	text = norm.NFKD.String(text)
	text = strings.NewReplacer("–", "-", "—", "-").Replace(text)
	text = multiSpace.ReplaceAllString(text, " ")
	text = pipes.ReplaceAllString(text, " ")

	loc := governmentForm.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	preceding := text[:loc[0]]
	if len(preceding) > 2000 {
		preceding = preceding[len(preceding)-2000:]
	}
	matches := governmentHeader.FindAllStringSubmatch(preceding, -1)
	if len(matches) == 0 {
		return "", false
	}

	header := strings.TrimSpace(matches[len(matches)-1][1])
	header = governmentFormTail.ReplaceAllString(header, "")
	header = irsBoilerplate.ReplaceAllString(header, "")
	header = trailingPunct.ReplaceAllString(header, "")
	header = strings.TrimSpace(multiSpace.ReplaceAllString(header, " "))
	if header == "" {
		return "", false
	}
	return titleCase(header) + government1099Suffix, true
}

var (
	hsaOverrides = []override{
		{"national financial services llc", "National Financial Services LLC"},
		{"national financial serves llc", "National Financial Services LLC"},
		{"bank of america", "Bank of America"},
		{"bark of america", "Bank of America"},
		{"bank of amerlca", "Bank of America"},
	}
	hsaSkip = []string{
		"omb no", "form 1099-sa", "distributions", "recipient", "payer's tin",
		"recipient's tin", "account number", "street address", "city or town",
		"state or province", "zip", "telephone",
	}
	hsaJunk = []string{
		"providing the trustee allows the repayment",
		"you may repay a mistaken distribution",
		"see the instructions",
		"report the fmv",
		"include the earnings",
		"this information is being furnished",
		"department of the treasury",
		"internal revenue service",
		"form 1099-sa",
		"instructions for recipient",
		"omb no",
		"copy b",
	}

	hsaGlued         = regexp.MustCompile(`(?i)form\s*1099-sa.*from an hsa`)
	hsaFormSplit     = regexp.MustCompile(`(?i)form\s*1099-sa`)
	hsaInline        = regexp.MustCompile(`(?i)from an hsa.*?(?:bank|trust|credit union|corporate)[^,]*`)
	hsaInlinePrefix  = regexp.MustCompile(`(?i)from an hsa[, ]*`)
	hsaSplit         = regexp.MustCompile(`(?i)(?:form\s*1099-sa|from an hsa)`)
	hsaAddressStop   = regexp.MustCompile(`\b(?:po box|p\.?o\.?|drive|street|road|ave|blvd)\b`)
	institutionWords = regexp.MustCompile(`(?i)(?:bank|trust|credit union|equity|corporate)`)
	institutionCore  = regexp.MustCompile(`(?i)\b([A-Z][A-Za-z& ]{0,60}?(?:Bank|Trust|Credit Union|Financial Services|Savings)[A-Za-z& ]{0,60})\b`)
	ocrGarbageTail   = regexp.MustCompile(`(?i)\bwe\s*[t1i|l]+\s*s[a4@]s+\s*n[e3]+\s*e[e3]*\b.*$`)
	trailingSepPunct = regexp.MustCompile(`[\s,.\-]+$`)
)

func normalizeLine(s string) string {
	s = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`).Replace(s)
	return strings.ToLower(squash(s))
}

func hsaJunkLine(lower string) bool {
	return hasAny(lower, hsaJunk...)
}

// HSAPayer resolves the custodian that issued a 1099-SA
func HSAPayer(text string) (string, bool) {
	normalized := normalizeLine(text)
	for _, o := range hsaOverrides {
		if strings.Contains(normalized, o.key) {
			return o.title, true
		}
	}

	lines := strings.Split(text, "\n")
	for _, l := range lines {
		if hsaGlued.MatchString(l) {
			if cand := strings.Trim(hsaFormSplit.Split(l, 2)[0], " ,|-"); cand != "" {
				return cleanInstitution(cand)
			}
		}
	}
	for _, l := range lines {
		if m := hsaInline.FindString(l); m != "" {
			return cleanInstitution(hsaInlinePrefix.ReplaceAllString(m, ""))
		}
	}

	for i, l := range lines {
		if !strings.Contains(normalizeLine(l), "foreign postal code, and telephone") {
			continue
		}
		for off := 1; off < 4 && i+off < len(lines); off++ {
			cand := strings.TrimSpace(lines[i+off])
			cl := normalizeLine(cand)
			if len(cand) <= 3 || hasAny(cl, hsaSkip...) || hsaJunkLine(cl) {
				continue
			}
			if cand = strings.Trim(hsaSplit.Split(cand, 2)[0], " ,|-"); cand != "" {
				return cleanInstitution(cand)
			}
		}
	}

	for i, l := range lines {
		nl := normalizeLine(l)
		if !(strings.Contains(nl, "country") && strings.Contains(nl, "zip") && strings.Contains(nl, "telephone")) {
			continue
		}
		var candidates []string
		for j := i + 1; j < len(lines); j++ {
			cand := strings.TrimSpace(lines[j])
			cl := normalizeLine(cand)
			if cand == "" || hasAny(cl, hsaSkip...) || hsaJunkLine(cl) {
				continue
			}
			if cand = strings.Trim(hsaSplit.Split(cand, 2)[0], " ,|-"); cand != "" {
				candidates = append(candidates, cand)
			}
			if hsaAddressStop.MatchString(cl) {
				break
			}
		}
		for _, c := range candidates {
			if institutionWords.MatchString(c) {
				return cleanInstitution(c)
			}
		}
		if len(candidates) > 0 {
			return cleanInstitution(candidates[0])
		}
	}

	for _, l := range lines {
		nl := normalizeLine(l)
		if institutionWords.MatchString(nl) && !hsaJunkLine(nl) {
			return cleanInstitution(l)
		}
	}
	return "", false
}

// cleanInstitution keeps the institution part of a line such as "Optum Bank"
// and trims OCR tails.
func cleanInstitution(raw string) (string, bool) {
	s := norm.NFKC.String(raw)
	s = strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)
	s = squash(s)

	name := s
	if m := institutionCore.FindStringSubmatch(s); m != nil {
		name = strings.Trim(m[1], " ,.-")
	}
	name = ocrGarbageTail.ReplaceAllString(name, "")
	name = strings.TrimSpace(trailingSepPunct.ReplaceAllString(name, ""))
	return name, name != ""
}

var trusteeNoise = regexp.MustCompile(`(?i)\b(?:do\s+not\s+cut|separate\s+forms?\s+on\s+this\s+page|see\s+instructions\s+on\s+back)[^A-Za-z]*`)

var optumVariants = compileAll(
	`(?i)\bOptum\s*Ban[kc]\b`,
	`(?i)\bOptun\s*Bank\b`,
	`(?i)\bOptm\s*Bank\b`,
	`(?i)\bOtum\s*Bank\b`,
	`(?i)\btum\s*Bank\b`,
	`(?i)\bOptum\s*Bamk\b`,
	`(?i)OptumBank`,
)

var (
	optumFinancial  = regexp.MustCompile(`(?i)Optum\s*Financial`)
	trusteeName     = regexp.MustCompile(`\b([A-Z][A-Za-z& ]{2,40}?(?:Care|Corporate|Corporation|Bank|Trust|LLC|Inc|Financial))\b`)
	twoDigits       = regexp.MustCompile(`\d{2,}`)
	wordTail        = regexp.MustCompile(`[^\w\s]+$`)
	contributionsIn = regexp.MustCompile(`(?i)contributions\s+made\s+in\s+\d{4}.*`)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// HSATrustee resolves the trustee of a 5498-SA
func HSATrustee(text string) (string, bool) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(text, "\n", " "), "  ", " ")
	cleaned = strings.TrimSpace(trusteeNoise.ReplaceAllString(cleaned, ""))

	for _, re := range optumVariants {
		if re.MatchString(cleaned) {
			return "Optum Bank", true
		}
	}
	if optumFinancial.MatchString(cleaned) {
		if strings.Contains(strings.ToLower(cleaned), "bank") {
			return "Optum Bank", true
		}
		return "Optum Financial", true
	}
	if m := trusteeName.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		ll := strings.ToLower(l)
		if !(strings.Contains(ll, "foreign postal code") && strings.Contains(ll, "telephone")) {
			continue
		}
		for _, cand := range lines[i+1:] {
			s := strings.TrimSpace(cand)
			if s == "" || twoDigits.MatchString(s) || strings.Contains(strings.ToLower(s), "contribution") {
				continue
			}
			raw := wordTail.ReplaceAllString(s, "")
			raw = strings.TrimSpace(contributionsIn.Split(raw, 2)[0])
			if raw != "" {
				return raw, true
			}
		}
	}
	return "", false
}
