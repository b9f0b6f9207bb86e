package titles

import (
	"regexp"
	"strings"
)

var (
	universityWord   = regexp.MustCompile(`(?i)\b(?:univ|university)\b`)
	institutionKeys  = regexp.MustCompile(`(?i)(?:University|College|Institute|Academy|Univ|Board of Regents|Tuition|Tuiti|Tution)`)
	tuitionJunk      = regexp.MustCompile(`[^\w\s.&-]`)
	univAbbrev       = regexp.MustCompile(`(?i)\bUniv\b`)
	tuitionTypos     = regexp.MustCompile(`(?i)\b(?:Tuiti|Tution)\b`)
	campusPrefix     = regexp.MustCompile(`(?i)^.*?-\s*(University|College|Institute|Academy|Board of Regents)`)
	yearTail         = regexp.MustCompile(`\b(?:19|20)\d{2}\b.*`)
	formTuitionTail  = regexp.MustCompile(`(?i)\bForm\s*1098[-\s]*T.*`)
	bareTuitionTail  = regexp.MustCompile(`(?i)\b1098[-\s]*T.*`)
	savingsPlanToken = regexp.MustCompile(`(?i)\b529\b`)
)

// Institution resolves the school name on a 1098-T
func Institution(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for _, l := range lines {
		if universityWord.MatchString(l) {
			return normalizeInstitution(l)
		}
	}

	for i, l := range lines {
		ll := strings.ToLower(l)
		if strings.Contains(ll, "foreign postal code") && strings.Contains(ll, "qualified tuition") && i+1 < len(lines) {
			if next := strings.TrimSpace(lines[i+1]); institutionKeys.MatchString(next) {
				return normalizeInstitution(next)
			}
		}
	}

	for _, l := range lines {
		if institutionKeys.MatchString(l) {
			return normalizeInstitution(l)
		}
	}
	return "", false
}

func normalizeInstitution(s string) (string, bool) {
	s = squash(tuitionJunk.ReplaceAllString(s, " "))
	s = univAbbrev.ReplaceAllString(s, "University")
	s = tuitionTypos.ReplaceAllString(s, "Tuition")
	s = campusPrefix.ReplaceAllString(s, "$1")
	s = yearTail.ReplaceAllString(s, "")
	s = formTuitionTail.ReplaceAllString(s, "")
	s = bareTuitionTail.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return s, s != ""
}

// SavingsPlan titles 529 statements
func SavingsPlan(text string) (string, bool) {
	if savingsPlanToken.MatchString(text) {
		return "529 Plan", true
	}
	return "", false
}
