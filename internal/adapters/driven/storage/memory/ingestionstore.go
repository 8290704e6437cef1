package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Ensure IngestionStore implements the interface.
var _ driven.IngestionStore = (*IngestionStore)(nil)

// IngestionStore is an in-memory implementation of driven.IngestionStore.
type IngestionStore struct {
	mu      sync.RWMutex
	records map[string]domain.IngestionRecord
}

// NewIngestionStore creates a new in-memory ingestion ledger.
func NewIngestionStore() *IngestionStore {
	return &IngestionStore{
		records: make(map[string]domain.IngestionRecord),
	}
}

// Save stores or replaces the record for its URL.
func (s *IngestionStore) Save(_ context.Context, record domain.IngestionRecord) error {
	if record.URL == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.URL] = record
	return nil
}

// Get retrieves the record for a URL.
func (s *IngestionStore) Get(_ context.Context, url string) (*domain.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns all records, most recently indexed first.
func (s *IngestionStore) List(_ context.Context) ([]domain.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.IngestionRecord, 0, len(s.records))
	for _, record := range s.records {
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IndexedAt.Equal(result[j].IndexedAt) {
			return result[i].URL < result[j].URL
		}
		return result[i].IndexedAt.After(result[j].IndexedAt)
	})
	return result, nil
}

// Delete removes the record for a URL.
func (s *IngestionStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, url)
	return nil
}
