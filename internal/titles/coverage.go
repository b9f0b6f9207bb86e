package titles

import "strings"

// Coverage titles a 1095-C page
func Coverage(text string) (string, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "employer-provided health insurance") || strings.Contains(lower, "form 1095-c") {
		return "1095-C – Employer-Provided Coverage", true
	}
	return "Form 1095-C", true
}
