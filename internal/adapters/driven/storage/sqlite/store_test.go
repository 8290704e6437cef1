package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store, dir
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, dir := setupTestStore(t)

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsAreRecorded(t *testing.T) {
	store, dir := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	// Reopening must not re-run applied migrations.
	again, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestSaveAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{
		URL:         "https://example.com/page",
		Title:       "Page",
		ChunksCount: 4,
		Strategy:    domain.ScoringKeyword,
		IndexedAt:   at,
	}))

	got, err := store.Get(ctx, "https://example.com/page")
	require.NoError(t, err)

	assert.Equal(t, "Page", got.Title)
	assert.Equal(t, 4, got.ChunksCount)
	assert.Equal(t, domain.ScoringKeyword, got.Strategy)
	assert.True(t, at.Equal(got.IndexedAt))
}

func TestSave_ReplacesByURL(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://a", ChunksCount: 1, IndexedAt: time.Unix(1, 0)}))
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://a", ChunksCount: 9, IndexedAt: time.Unix(2, 0)}))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 9, records[0].ChunksCount)
}

func TestSave_RequiresURL(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.Save(context.Background(), domain.IngestionRecord{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSave_DefaultsIndexedAt(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://a"}))

	got, err := store.Get(ctx, "https://a")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got.IndexedAt, time.Minute)
}

func TestGet_NotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), "https://missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://old", IndexedAt: time.Unix(100, 0)}))
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://new", IndexedAt: time.Unix(300, 0)}))
	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://mid", IndexedAt: time.Unix(200, 0)}))

	records, err := store.List(ctx)
	require.NoError(t, err)

	urls := make([]string, len(records))
	for i, r := range records {
		urls[i] = r.URL
	}
	assert.Equal(t, []string{"https://new", "https://mid", "https://old"}, urls)
}

func TestList_Empty(t *testing.T) {
	store, _ := setupTestStore(t)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.IngestionRecord{URL: "https://a"}))
	require.NoError(t, store.Delete(ctx, "https://a"))
	require.NoError(t, store.Delete(ctx, "https://never"))

	_, err := store.Get(ctx, "https://a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, domain.IngestionRecord{URL: "https://kept", ChunksCount: 2}))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "https://kept")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ChunksCount)
}
