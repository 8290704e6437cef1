package driving

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search retrieves an over-fetched candidate pool from the vector index,
	// reranks it with the active scoring strategy and returns the best
	// opts.TopK results. An empty query returns an empty list without any
	// external calls.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
