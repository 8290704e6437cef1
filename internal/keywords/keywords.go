// Package keywords extracts the bounded keyword set stored with each chunk
// when the index carries no embeddings.
package keywords

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/pagesearch/internal/scoring"
)

// DefaultLimit is the maximum number of keywords kept per chunk.
const DefaultLimit = 10

const minLength = 3

// Extract returns up to limit of the most frequent non-stopword terms in
// text, lowercased. Ties keep first-occurrence order.
func Extract(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	counts := make(map[string]int, len(words))
	var order []string
	for _, w := range words {
		if utf8.RuneCountInString(w) < minLength || scoring.IsStopWord(w) || isNumber(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func isNumber(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
