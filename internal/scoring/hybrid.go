package scoring

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// MaxRelevance caps every hybrid score.
const MaxRelevance = 0.99

const (
	semanticOnlyWeight = 0.6
	semanticWeight     = 0.3
	keywordWeight      = 0.7
	introBonus         = 0.1
	blendBoost         = 1.1
	highSemantic       = 0.5
)

// Hybrid blends vector similarity with keyword coverage.
type Hybrid struct{}

// Strategy implements Scorer.
func (Hybrid) Strategy() domain.ScoringStrategy { return domain.ScoringHybrid }

// NeedsEmbeddings implements Scorer.
func (Hybrid) NeedsEmbeddings() bool { return true }

// Score implements Scorer.
//
// A literal occurrence of the whole query scores MaxRelevance. Otherwise the
// share of significant query terms found in the chunk is blended with the
// semantic similarity, with a bonus for the first two chunks of a page.
func (Hybrid) Score(chunkText, query string, chunkIndex int, semantic *float64) (float64, string) {
	s := 0.0
	if semantic != nil {
		s = *semantic
	}

	chunk := strings.ToLower(chunkText)
	q := strings.TrimSpace(strings.ToLower(query))
	terms := queryTerms(q, 3)
	if len(terms) == 0 {
		return 0, "No query terms"
	}

	if strings.Contains(chunk, q) {
		return MaxRelevance, fmt.Sprintf("Exact phrase '%s'", query)
	}

	matched := 0
	for _, t := range terms {
		if strings.Contains(chunk, t) {
			matched++
		}
	}

	if matched == 0 {
		score := clamp(s*semanticOnlyWeight, 0, MaxRelevance)
		return score, fmt.Sprintf("Semantic only (%s)", percent(s))
	}

	ratio := float64(matched) / float64(len(terms))
	blended := s*semanticWeight + ratio*keywordWeight
	if chunkIndex < 2 {
		blended += introBonus
	}
	score := clamp(blended*blendBoost, 0, MaxRelevance)

	reason := fmt.Sprintf("%d/%d keywords", matched, len(terms))
	if s > highSemantic {
		reason += fmt.Sprintf(" | High semantic (%s)", percent(s))
	}
	if chunkIndex == 0 {
		reason += " | Intro"
	}
	return score, reason
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
