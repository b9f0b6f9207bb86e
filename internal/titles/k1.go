package titles

import (
	"regexp"
	"strings"
)

// UnknownEntity names a K-1 partnership whose name could not be read
const UnknownEntity = "Unknown Entity"

// UnknownEIN stands in for a K-1 EIN that could not be read
const UnknownEIN = "Unknown-EIN"

var (
	labelledEIN = regexp.MustCompile(`(?i)EIN\s*[:#]?\s*(\d{2}-\d{7})`)
	entityName  = regexp.MustCompile(`(?i)([A-Z][A-Za-z0-9&.,'\-\s]{3,60}(?:LLC|LP|LLP))`)
)

// EIN returns the partnership EIN on a K-1 page, preferring a labelled one
func EIN(text string) (string, bool) {
	if m := labelledEIN.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := einPattern.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// EntityName returns the partnership name on a K-1 page, or UnknownEntity
func EntityName(text string) string {
	if m := entityName.FindStringSubmatch(text); m != nil {
		if name := squash(m[1]); name != "" {
			return name
		}
	}
	return UnknownEntity
}

// PartnershipTitle formats the K-1 group node for an EIN
func PartnershipTitle(ein string) string {
	if strings.TrimSpace(ein) == "" {
		ein = UnknownEIN
	}
	return "Form 1065 – (EIN " + ein + ")"
}
