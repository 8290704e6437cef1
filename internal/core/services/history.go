package services

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads the ingestion ledger.
type HistoryService struct {
	store driven.IngestionStore
}

// NewHistoryService creates a new history service.
// A nil store yields an empty history.
func NewHistoryService(store driven.IngestionStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns every ingested URL, most recent first.
func (s *HistoryService) List(ctx context.Context) ([]domain.IngestionRecord, error) {
	if s.store == nil {
		return []domain.IngestionRecord{}, nil
	}
	return s.store.List(ctx)
}

// Get returns the ledger entry for a URL.
func (s *HistoryService) Get(ctx context.Context, url string) (*domain.IngestionRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.Get(ctx, url)
}
