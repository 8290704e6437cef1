package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

const (
	matchWeight     = 0.5
	frequencyWeight = 0.3
	exactWeight     = 0.2
	positionWeight  = 0.1

	earlyPosition = 100
	nearPosition  = 450
)

// Keyword ranks on whole-word keyword evidence only.
type Keyword struct{}

// Strategy implements Scorer.
func (Keyword) Strategy() domain.ScoringStrategy { return domain.ScoringKeyword }

// NeedsEmbeddings implements Scorer.
func (Keyword) NeedsEmbeddings() bool { return false }

// Score implements Scorer. The semantic signal is ignored.
func (Keyword) Score(chunkText, query string, chunkIndex int, _ *float64) (float64, string) {
	chunk := strings.ToLower(chunkText)
	q := strings.TrimSpace(strings.ToLower(query))
	terms := distinct(queryTerms(q, 2))
	if len(terms) == 0 {
		return 0, "No query terms"
	}

	matched, occurrences := 0, 0
	first := math.MaxInt
	for _, t := range terms {
		count, at := wholeWordMatches(chunk, t)
		if count == 0 {
			continue
		}
		matched++
		occurrences += count
		if pos := utf8.RuneCountInString(chunk[:at]); pos < first {
			first = pos
		}
	}

	n := len(terms)
	matchRatio := float64(matched) / float64(n)
	frequency := FrequencyBoost(occurrences, n)
	exact := 0.0
	if strings.Contains(chunk, q) {
		exact = 1.0
	}
	position := positionBonus(first)

	score := clamp(
		matchWeight*matchRatio+frequencyWeight*frequency+exactWeight*exact+positionWeight*position,
		0, 1,
	)

	var parts []string
	if exact > 0 {
		parts = append(parts, "Exact phrase")
	}
	if matched > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d keywords", matched, n))
	}
	if occurrences > n {
		parts = append(parts, fmt.Sprintf("%d occurrences", occurrences))
	}
	if position > 0 {
		parts = append(parts, "Early match")
	}
	if chunkIndex == 0 {
		parts = append(parts, "Intro")
	}
	if len(parts) == 0 {
		return score, "Low relevance"
	}
	return score, strings.Join(parts, " | ")
}

// FrequencyBoost rewards repeated term occurrences, saturating at 1.
func FrequencyBoost(occurrences, termCount int) float64 {
	return math.Min(1, float64(occurrences)/float64(max(termCount, 3)))
}

func positionBonus(first int) float64 {
	switch {
	case first < earlyPosition:
		return 1.0
	case first < nearPosition:
		return 0.7
	default:
		return 0
	}
}
