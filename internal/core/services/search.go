package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/logger"
	"github.com/custodia-labs/pagesearch/internal/scoring"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers free-text queries over indexed chunks.
type SearchService struct {
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	scorer           scoring.Scorer
	settings         domain.SearchSettings
	dimensions       int
}

// NewSearchService creates a new search service.
// The embeddingService parameter is optional (can be nil) when the scorer
// does not need embeddings.
func NewSearchService(
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	scorer scoring.Scorer,
	settings domain.AppSettings,
) *SearchService {
	return &SearchService{
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		scorer:           scorer,
		settings:         settings.Search,
		dimensions:       settings.Embedding.Dimensions,
	}
}

// Search reranks an over-fetched candidate pool and returns the best results.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	// Return empty for empty query
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.settings.TopK
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	fetchK := FetchK(topK, s.settings.FetchMultiplier, s.settings.FetchCap)
	logger.Debug("Top K: %d, fetch K: %d, strategy: %s", topK, fetchK, s.scorer.Strategy())

	vector, err := s.queryVector(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var filter *driven.Filter
	if scope := strings.TrimSpace(opts.URL); scope != "" {
		f := driven.URLFilter(scope)
		filter = &f
		logger.Debug("URL filter: %s", scope)
	}

	matches, err := s.vectorIndex.Query(ctx, vector, fetchK, filter)
	if err != nil {
		logger.Warn("Vector index query failed: %v", err)
		return nil, fmt.Errorf("search: %w", &domain.IndexError{Op: domain.IndexQueryFailed, Err: err})
	}
	logger.Debug("Vector index returned %d matches", len(matches))

	withSemantic := s.scorer.NeedsEmbeddings()
	candidates := make([]domain.ScoredCandidate, 0, len(matches))
	for _, m := range matches {
		if m.ChunkText == "" {
			continue
		}
		var semantic *float64
		if withSemantic {
			score := m.Score
			semantic = &score
		}
		relevance, reason := s.scorer.Score(m.ChunkText, query, m.ChunkIndex, semantic)
		candidates = append(candidates, domain.ScoredCandidate{
			ChunkText:      m.ChunkText,
			URL:            m.URL,
			ChunkIndex:     m.ChunkIndex,
			SemanticScore:  semantic,
			RelevanceScore: relevance,
			Reason:         reason,
		})
	}
	logger.Debug("Scored %d candidates", len(candidates))

	ranked := RankReduce(candidates, topK)
	results := make([]domain.SearchResult, len(ranked))
	for i, c := range ranked {
		results[i] = c.Result()
		if c.SemanticScore != nil {
			rounded := round4(*c.SemanticScore)
			results[i].SemanticScore = &rounded
		}
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}

// queryVector embeds the query, or returns the placeholder vector when the
// scorer works without embeddings.
func (s *SearchService) queryVector(ctx context.Context, query string) ([]float32, error) {
	if !s.scorer.NeedsEmbeddings() {
		return domain.PlaceholderVector(s.dimensions), nil
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Debug("Generating query embedding...")
	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, &domain.EmbeddingError{Op: "embed", Err: err}
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))
	return embedding, nil
}
