package titles

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	salesforce     = regexp.MustCompile(`(?i)\bSALESFORCE[, ]+INC\.?`)
	payrollLine    = regexp.MustCompile(`(?i).+\s*-\s*PAYROL`)
	employerTail   = regexp.MustCompile(`(?i)\bb\s*employer.*`)
	entityCut      = regexp.MustCompile(`(?i)\b(?:employer|employee|ein|ssn|address|social security|withheld)\b`)
	ssnPattern     = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	einPattern     = regexp.MustCompile(`\b\d{2}-\d{7}\b`)
	trailingNums   = regexp.MustCompile(`(?:\s+\d+(?:[.,]\d+)?)+\s*$`)
	trailingTokens = regexp.MustCompile(`(?:\s+\d[\d\-.,]*)+$`)
	numericOnly    = regexp.MustCompile(`^[\d\-.,]+$`)
)

var fcaVariants = []string{"fca us llc", "fca us, llc", "fcaus llc"}

var entityBadPrefixes = []string{
	"employee", "wages", "social security", "medicare",
	"withheld", "tax", "omb", "form w-2", "department", "irs",
	"c employer", "© employer", "¢ employer", "= employer",
}

var entityInlineJunk = []string{"less:", "gross pay", "deductions", "earnings", "withheld", "retirement"}

var entityJunkSuffixes = [][]string{{"TAX", "WITHHELD"}, {"WITHHELD"}, {"COPY"}, {"VOID"}, {"DUPLICATE"}}

var w2LineJunk = []string{
	"omb no",
	"control number",
	"payrol",
	"allocated tips",
	"social security wages",
	"social security tax withheld",
}

// Employer resolves the employer name printed on a W-2
func Employer(text string) (string, bool) {
	if salesforce.MatchString(text) {
		return "SALESFORCE, INC", true
	}
	lower := strings.ToLower(text)
	if hasAny(lower, fcaVariants...) {
		return "FCA US LLC", true
	}

	lines := strings.Split(text, "\n")
	name := ""

	for i, l := range lines {
		ll := strings.ToLower(l)
		if strings.Contains(ll, "allocated tips") && strings.Contains(ll, "social security") {
			if raw := nextNameLine(lines, i+1); raw != "" {
				name = normalizeEntityName(raw)
			}
			break
		}
	}
	for i, l := range lines {
		if payrollLine.MatchString(l) {
			if raw := nextNameLine(lines, i+1); raw != "" {
				name = normalizeEntityName(strings.TrimSpace(employerTail.ReplaceAllString(raw, "")))
			}
			break
		}
	}
	for i, l := range lines {
		ll := strings.ToLower(l)
		if strings.Contains(ll, "employer") && strings.Contains(ll, "name") {
			if raw := nextNameLine(lines, i+1); raw != "" {
				name = normalizeEntityName(raw)
			}
			break
		}
	}

	if name == "" {
		return "", false
	}
	name = normalizeEntityName(name)
	return name, name != ""
}

// nextNameLine returns the first line from start on that is not a known
// W-2 header and looks like a name.
func nextNameLine(lines []string, start int) string {
	for j := start; j < len(lines); j++ {
		raw := strings.TrimSpace(lines[j])
		if raw == "" || hasAny(strings.ToLower(raw), w2LineJunk...) {
			continue
		}
		if nameLike(raw) {
			return raw
		}
	}
	return ""
}

func nameLike(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2 && !numericOnly.MatchString(s)
}

// normalizeEntityName strips labels, identifiers, repeated words and trailing
// noise from an OCR'd employer line. It returns "" when nothing usable is left.
func normalizeEntityName(raw string) string {
	if raw == "" {
		return ""
	}
	if loc := entityCut.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]]
	}
	s := strings.TrimSpace(raw)
	ls := strings.ToLower(s)
	for _, p := range entityBadPrefixes {
		if strings.HasPrefix(ls, p) {
			return ""
		}
	}
	for _, junk := range entityInlineJunk {
		if idx := strings.Index(strings.ToLower(s), junk); idx != -1 {
			s = strings.TrimSpace(s[:idx])
			break
		}
	}
	s = ssnPattern.ReplaceAllString(s, "")
	s = einPattern.ReplaceAllString(s, "")

	words := collapseRepeats(strings.Fields(s))
	s = trailingNums.ReplaceAllString(strings.Join(words, " "), "")

	words = trimJunkSuffixes(strings.Fields(s))
	for cut := 1; cut < len(words); cut++ {
		left := strings.Join(words[:cut], " ")
		right := strings.Join(words[cut:], " ")
		if similarity(strings.ToLower(left), strings.ToLower(right)) > 0.75 {
			words = words[:cut]
			break
		}
	}
	s = strings.TrimSpace(trailingTokens.ReplaceAllString(strings.Join(words, " "), ""))
	return squash(s)
}

// collapseRepeats reduces a line that repeats itself ("ACME CO ACME CO") and
// adjacent repeated word runs to a single copy.
func collapseRepeats(words []string) []string {
	n := len(words)
	for size := 1; size <= n/2; size++ {
		if n%size != 0 {
			continue
		}
		whole := true
		for i := size; i < n && whole; i += size {
			whole = equalFoldWords(words[:size], words[i:i+size])
		}
		if whole {
			return words[:size]
		}
	}

	out := append([]string(nil), words...)
	for size := 1; size <= len(out)/2; size++ {
		for i := 0; i+2*size <= len(out); {
			if equalFoldWords(out[i:i+size], out[i+size:i+2*size]) {
				out = append(out[:i+size], out[i+2*size:]...)
				continue
			}
			i++
		}
	}
	return out
}

func equalFoldWords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func trimJunkSuffixes(words []string) []string {
	for trimmed := true; trimmed && len(words) > 0; {
		trimmed = false
		for _, junk := range entityJunkSuffixes {
			if len(words) < len(junk) {
				continue
			}
			if equalFoldWords(words[len(words)-len(junk):], junk) {
				words = words[:len(words)-len(junk)]
				trimmed = true
				break
			}
		}
	}
	return words
}
