package driven

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// IngestionStore persists the ledger of successfully ingested URLs.
type IngestionStore interface {
	// Save stores or replaces the record for its URL.
	Save(ctx context.Context, record domain.IngestionRecord) error

	// Get retrieves the record for a URL.
	// Returns domain.ErrNotFound if the URL was never ingested.
	Get(ctx context.Context, url string) (*domain.IngestionRecord, error)

	// List returns all records, most recently indexed first.
	List(ctx context.Context) ([]domain.IngestionRecord, error)

	// Delete removes the record for a URL.
	Delete(ctx context.Context, url string) error
}
