// Package scoring reranks retrieved chunks against a free-text query.
//
// A Scorer turns a chunk, the query and an optional semantic similarity into
// a relevance value and a human-readable reason. Two strategies exist:
//
//   - Hybrid: blends the semantic similarity with keyword coverage
//   - Keyword: whole-word keyword evidence only, for indexes without embeddings
//
// Scorers are pure and never fail.
package scoring

import (
	"fmt"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// Scorer computes the relevance of a chunk for a query.
type Scorer interface {
	// Score returns a relevance value and the reason for it.
	// semantic is nil when no similarity signal is available.
	Score(chunkText, query string, chunkIndex int, semantic *float64) (float64, string)

	// Strategy returns the strategy this scorer implements.
	Strategy() domain.ScoringStrategy

	// NeedsEmbeddings returns true if the scorer consumes a semantic signal.
	NeedsEmbeddings() bool
}

// New returns the scorer for a strategy. An empty strategy selects hybrid.
func New(strategy domain.ScoringStrategy) (Scorer, error) {
	switch strategy {
	case domain.ScoringHybrid, "":
		return Hybrid{}, nil
	case domain.ScoringKeyword:
		return Keyword{}, nil
	default:
		return nil, fmt.Errorf("%w: scoring strategy %q", domain.ErrUnsupportedType, strategy)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
