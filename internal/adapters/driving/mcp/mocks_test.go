package mcp

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
	query    string
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.query = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result *domain.IngestResult
	err    error
	url    string
}

func (m *mockIngestService) Ingest(_ context.Context, url string) (*domain.IngestResult, error) {
	m.url = url
	return m.result, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records []domain.IngestionRecord
	err     error
}

func (m *mockHistoryService) List(_ context.Context) ([]domain.IngestionRecord, error) {
	return m.records, m.err
}

func (m *mockHistoryService) Get(_ context.Context, url string) (*domain.IngestionRecord, error) {
	for i := range m.records {
		if m.records[i].URL == url {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
