package titles

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	multiSpace     = regexp.MustCompile(`\s{2,}`)
	anySpace       = regexp.MustCompile(`\s+`)
	trailingJunk   = regexp.MustCompile(`[^\w\s.&,'-]+$`)
	nameTrailJunk  = regexp.MustCompile(`[^\w\s,&.\-]+$`)
	leadingBoxLine = regexp.MustCompile(`^\d+[\s.]`)
)

// nonEmptyLines splits text into trimmed lines, dropping blank ones
func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(l); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.ToLower(l)
	}
	return out
}

func hasAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of every letter run and lower-cases
// the rest, so "LOANDEPOT.COM LLC" becomes "Loandepot.Com Llc".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// similarity returns 2*M/T where M is the number of characters in matching
// blocks found by repeatedly taking the longest common substring.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	bestI, bestJ, bestK := 0, 0, 0
	// lengths of common suffixes ending at a[i-1], b[j-1]
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestK {
					bestI, bestJ, bestK = i-cur[j], j-cur[j], cur[j]
				}
			}
		}
		prev = cur
	}
	if bestK == 0 {
		return 0
	}
	return bestK +
		matchingRunes(a[:bestI], b[:bestJ]) +
		matchingRunes(a[bestI+bestK:], b[bestJ+bestK:])
}
