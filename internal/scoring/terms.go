package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords are excluded from query terms.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "in": {}, "to": {}, "of": {}, "for": {}, "on": {}, "with": {},
	"at": {}, "by": {}, "from": {},
}

// IsStopWord reports whether w is in the stop-word set.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// queryTerms splits a lowercased query into significant terms of at least
// minLen runes. If nothing survives the filter, every word is returned.
func queryTerms(query string, minLen int) []string {
	words := strings.Fields(query)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < minLen || IsStopWord(w) {
			continue
		}
		terms = append(terms, w)
	}
	if len(terms) == 0 {
		return words
	}
	return terms
}

func distinct(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// wholeWordMatches counts the non-overlapping occurrences of term in text
// that sit on word boundaries, and returns the byte offset of the first one
// (-1 when there is none). Letters, digits, marks and '_' of any script are
// word characters.
func wholeWordMatches(text, term string) (count, first int) {
	first = -1
	if term == "" {
		return 0, first
	}
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], term)
		if j < 0 {
			break
		}
		start, end := i+j, i+j+len(term)
		if atBoundary(text, start) && atBoundary(text, end) {
			count++
			if first < 0 {
				first = start
			}
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return count, first
}

// atBoundary reports whether exactly one side of byte offset i is a word
// character. Both ends of text count as non-word.
func atBoundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
