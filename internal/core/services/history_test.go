package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestHistoryService_NilStore(t *testing.T) {
	service := NewHistoryService(nil)

	list, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = service.Get(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_ListAndGet(t *testing.T) {
	store := memory.NewIngestionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://a", IndexedAt: time.Unix(1, 0)}))
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://b", IndexedAt: time.Unix(2, 0)}))

	service := NewHistoryService(store)

	list, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "https://b", list[0].URL)

	rec, err := service.Get(ctx, "https://a")
	require.NoError(t, err)
	assert.Equal(t, "https://a", rec.URL)
}
