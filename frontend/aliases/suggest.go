package aliases

import (
	"regexp"
	"strings"
)

var (
	cePrefixRe = regexp.MustCompile(`(?i)^CE[-\s_]*`)
	spacesRe   = regexp.MustCompile(`\s+`)
	twoWordsRe = regexp.MustCompile(`^[A-Z]{2,}\s+[A-Z]{2,}$`)
	spacedNoRe = regexp.MustCompile(`^([A-Z]+)\s+(\d+)$`)
	stuckNoRe  = regexp.MustCompile(`^([A-Z]+)(\d+)$`)
)

// SuggestCanonical proposes a machine code from raw spreadsheet text, e.g.
// "CE-TCN12" becomes "TCN-12". Purely advisory prefill for the mapping form;
// the operator can override it freely and alias storage never depends on it.
func SuggestCanonical(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = cePrefixRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))

	if twoWordsRe.MatchString(s) {
		return spacesRe.ReplaceAllString(s, "-")
	}
	if m := spacedNoRe.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2]
	}
	if m := stuckNoRe.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2]
	}
	return spacesRe.ReplaceAllString(s, "-")
}
