package driving

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// IngestService turns a page URL into indexed chunks.
type IngestService interface {
	// Ingest fetches, extracts, chunks, embeds and upserts a page.
	// Previously indexed chunks for the URL are replaced.
	Ingest(ctx context.Context, url string) (*domain.IngestResult, error)
}

// HistoryService exposes the ingestion ledger.
type HistoryService interface {
	// List returns every ingested URL, most recent first.
	List(ctx context.Context) ([]domain.IngestionRecord, error)

	// Get returns the ledger entry for a URL.
	Get(ctx context.Context, url string) (*domain.IngestionRecord, error)
}
