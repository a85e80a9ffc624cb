package board

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// minFuzzyLen is the shortest query that is compared by edit distance.
// Shorter queries only match by substring.
const minFuzzyLen = 3

// MatchCards returns the cards whose title or description matches query,
// keeping the input order. An empty query matches everything.
func MatchCards(cards []Card, query string) []Card {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return cards
	}
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if matchCard(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matchCard(c Card, q string) bool {
	title := strings.ToUpper(c.Title)
	if strings.Contains(title, q) || strings.Contains(strings.ToUpper(c.Description), q) {
		return true
	}
	if len(q) < minFuzzyLen {
		return false
	}
	for _, word := range strings.Fields(title) {
		if closeEnough(word, q) {
			return true
		}
	}
	return false
}

// closeEnough uses the same 0.4 relative edit distance cut-off as duplicate
// detection on descriptions.
func closeEnough(a, b string) bool {
	dist := levenshtein.ComputeDistance(a, b)
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return float64(dist)/float64(maxlen) < 0.4
}
