package tui

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
	LastOpts   domain.SearchOptions
}

func (m *MockSearchService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.LastOpts = opts
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return []domain.SearchResult{}, nil
}

// MockIngestService implements driving.IngestService for testing.
type MockIngestService struct {
	IngestFunc func(ctx context.Context, url string) (*domain.IngestResult, error)
}

func (m *MockIngestService) Ingest(ctx context.Context, url string) (*domain.IngestResult, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, url)
	}
	return &domain.IngestResult{URL: url, ChunksCount: 1, Indexed: true, Message: "Indexed 1 chunks"}, nil
}

// MockHistoryService implements driving.HistoryService for testing.
type MockHistoryService struct {
	Records []domain.IngestionRecord
}

func (m *MockHistoryService) List(_ context.Context) ([]domain.IngestionRecord, error) {
	return m.Records, nil
}

func (m *MockHistoryService) Get(_ context.Context, url string) (*domain.IngestionRecord, error) {
	for i := range m.Records {
		if m.Records[i].URL == url {
			return &m.Records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
