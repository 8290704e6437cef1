package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestIngestionStore_SaveGet(t *testing.T) {
	store := NewIngestionStore()
	ctx := context.Background()

	rec := domain.IngestionRecord{
		URL:         "https://example.com/a",
		Title:       "A",
		ChunksCount: 3,
		Strategy:    domain.ScoringHybrid,
		IndexedAt:   time.Unix(100, 0),
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, rec.URL)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestIngestionStore_SaveReplaces(t *testing.T) {
	store := NewIngestionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "u", ChunksCount: 1}))
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "u", ChunksCount: 5}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].ChunksCount)
}

func TestIngestionStore_SaveRequiresURL(t *testing.T) {
	err := NewIngestionStore().Save(context.Background(), domain.IngestionRecord{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestionStore_GetNotFound(t *testing.T) {
	_, err := NewIngestionStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestionStore_ListNewestFirst(t *testing.T) {
	store := NewIngestionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "old", IndexedAt: time.Unix(1, 0)}))
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "new", IndexedAt: time.Unix(3, 0)}))
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "mid", IndexedAt: time.Unix(2, 0)}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].URL)
	assert.Equal(t, "mid", list[1].URL)
	assert.Equal(t, "old", list[2].URL)
}

func TestIngestionStore_Delete(t *testing.T) {
	store := NewIngestionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "u"}))
	require.NoError(t, store.Delete(ctx, "u"))

	_, err := store.Get(ctx, "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
