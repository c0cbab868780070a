package council

import (
	"regexp"
	"strings"
)

const rankingHeader = "FINAL RANKING:"

var labelPattern = regexp.MustCompile(`Response [A-Z]`)

// ParseRanking extracts an ordered best-to-worst list of anonymized labels
// from a judge's free-text reply. It prefers the section after the
// "FINAL RANKING:" header and falls back to scanning the whole text.
// Labels outside the known set are ignored, repeated labels keep their
// first position, and total failure yields an empty slice, never an error.
func ParseRanking(text string, known []string) []string {
	section := text
	if _, after, found := strings.Cut(text, rankingHeader); found {
		section = after
	}

	order := selectKnown(labelPattern.FindAllString(section, -1), known)
	if len(order) == 0 && section != text {
		// The header was present but its section had nothing usable;
		// scan the full reply instead.
		order = selectKnown(labelPattern.FindAllString(text, -1), known)
	}
	return order
}

// selectKnown filters matches down to the known label set, first
// occurrence wins.
func selectKnown(matches []string, known []string) []string {
	knownSet := make(map[string]bool, len(known))
	for _, label := range known {
		knownSet[label] = true
	}

	order := make([]string, 0, len(known))
	seen := make(map[string]bool, len(known))
	for _, label := range matches {
		if !knownSet[label] || seen[label] {
			continue
		}
		seen[label] = true
		order = append(order, label)
	}
	return order
}
