// Package chromem provides an embedded vector index backed by chromem-go.
//
// The index lives in process memory and is optionally persisted to a
// directory. Metadata is stored as strings; chunk text is kept as the
// document content.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	cg "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/vector"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

var errNoEmbedder = errors.New("chromem: records must carry precomputed vectors")

// Config holds configuration for the chromem index.
type Config struct {
	// Path is the persistence directory. Empty keeps the index in memory.
	Path string

	// Collection is the collection name (default: html-chunks).
	Collection string

	// Dimensions is the vector width, used for filtered counts.
	Dimensions int

	// Compress enables gzip compression of persisted files.
	Compress bool
}

// Index is a chromem-go collection.
type Index struct {
	// Guards query-after-count sequences against concurrent writes.
	mu         sync.RWMutex
	db         *cg.DB
	collection *cg.Collection
	dimensions int
}

// New opens or creates the index.
func New(cfg Config) (*Index, error) {
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollection
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.DefaultDimensions
	}

	db := cg.NewDB()
	if cfg.Path != "" {
		var err error
		db, err = cg.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("chromem: open %s: %w", cfg.Path, err)
		}
	}

	embed := func(context.Context, string) ([]float32, error) { return nil, errNoEmbedder }
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("chromem: collection %s: %w", cfg.Collection, err)
	}

	return &Index{db: db, collection: collection, dimensions: cfg.Dimensions}, nil
}

// Upsert inserts or replaces records by ID.
func (i *Index) Upsert(ctx context.Context, records []domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]cg.Document, len(records))
	for n, r := range records {
		meta := vector.StringMetadata(r.Metadata)
		docs[n] = cg.Document{
			ID:        r.ID,
			Metadata:  meta,
			Embedding: r.Vector,
			Content:   meta[domain.MetaChunkText],
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem: add documents: %w", err)
	}
	return nil
}

// Delete removes every record whose metadata matches the filter.
func (i *Index) Delete(ctx context.Context, filter driven.Filter) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.collection.Delete(ctx, where(&filter), nil); err != nil {
		return fmt.Errorf("chromem: delete: %w", err)
	}
	return nil
}

// Query returns up to topK records ordered by descending similarity.
func (i *Index) Query(ctx context.Context, vec []float32, topK int, filter *driven.Filter) ([]driven.VectorMatch, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	results, err := i.query(ctx, vec, topK, filter)
	if err != nil {
		return nil, err
	}

	matches := make([]driven.VectorMatch, 0, len(results))
	for _, r := range results {
		meta := vector.AnyMetadata(r.Metadata)
		if _, ok := meta[domain.MetaChunkText]; !ok {
			meta[domain.MetaChunkText] = r.Content
		}
		matches = append(matches, vector.ToMatch(r.ID, float64(r.Similarity), meta))
	}
	return matches, nil
}

// Count returns the number of records matching the filter.
func (i *Index) Count(ctx context.Context, filter *driven.Filter) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if filter == nil {
		return i.collection.Count(), nil
	}
	results, err := i.query(ctx, domain.PlaceholderVector(i.dimensions), i.collection.Count(), filter)
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

// query clamps n to the collection size; chromem rejects larger requests.
// Callers hold mu.
func (i *Index) query(ctx context.Context, vec []float32, n int, filter *driven.Filter) ([]cg.Result, error) {
	n = min(n, i.collection.Count())
	if n <= 0 {
		return nil, nil
	}
	results, err := i.collection.QueryEmbedding(ctx, vec, n, where(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}
	return results, nil
}

// Close releases resources. Persistent databases write through on every
// change, so there is nothing to flush.
func (i *Index) Close() error {
	return nil
}

func where(filter *driven.Filter) map[string]string {
	if filter == nil {
		return nil
	}
	return map[string]string{filter.Field: filter.Value}
}
