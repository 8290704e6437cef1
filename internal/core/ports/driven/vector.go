package driven

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// VectorIndex stores chunk records and answers similarity queries.
// Dimension is fixed per index; similarity is cosine.
type VectorIndex interface {
	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []domain.IndexRecord) error

	// Delete removes every record whose metadata matches the filter.
	Delete(ctx context.Context, filter Filter) error

	// Query returns up to topK records ordered by descending similarity.
	// A nil filter matches all records.
	Query(ctx context.Context, vector []float32, topK int, filter *Filter) ([]VectorMatch, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter *Filter) (int, error)

	// Close releases resources.
	Close() error
}

// Filter is an equality predicate on one metadata field.
type Filter struct {
	Field string
	Value string
}

// URLFilter matches the records of a single page.
func URLFilter(url string) Filter {
	return Filter{Field: domain.MetaURL, Value: url}
}

// VectorMatch represents a similarity search result.
type VectorMatch struct {
	// ID is the record id.
	ID string

	// Score is the raw cosine similarity.
	Score float64

	// URL, ChunkIndex and ChunkText are decoded from record metadata.
	URL        string
	ChunkIndex int
	ChunkText  string
}
