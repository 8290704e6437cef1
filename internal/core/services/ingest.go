package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/keywords"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns a page into indexed chunks.
//
// Re-ingesting a URL replaces its chunk set: existing records are deleted
// before the new ones are upserted. The replace is not atomic. If embedding
// or upsert fails after the delete, the URL is left without chunks and the
// typed error is returned so the caller can retry.
type IngestService struct {
	fetcher          driven.Fetcher
	normaliser       driven.Normaliser
	chunker          driven.Chunker
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	ingestionStore   driven.IngestionStore
	settings         domain.AppSettings
	now              func() time.Time
}

// NewIngestService creates a new ingestion service.
// The embeddingService parameter is optional (can be nil) under the keyword
// scoring strategy.
func NewIngestService(
	fetcher driven.Fetcher,
	normaliser driven.Normaliser,
	chunker driven.Chunker,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	settings domain.AppSettings,
) *IngestService {
	return &IngestService{
		fetcher:          fetcher,
		normaliser:       normaliser,
		chunker:          chunker,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		settings:         settings,
		now:              time.Now,
	}
}

// SetIngestionStore sets the ledger that records ingested URLs.
func (s *IngestService) SetIngestionStore(store driven.IngestionStore) {
	s.ingestionStore = store
}

// Ingest fetches, extracts, chunks, embeds and indexes a page.
func (s *IngestService) Ingest(ctx context.Context, rawURL string) (*domain.IngestResult, error) {
	logger.Section("Ingestion")

	pageURL, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}
	logger.Debug("URL: %s", pageURL)

	strategy := s.settings.Scoring.Strategy
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if strategy.RequiresEmbedding() && s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	raw, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Warn("Fetch failed: %v", err)
		return nil, fmt.Errorf("ingest %s: %w", pageURL, err)
	}
	logger.Debug("Fetched %d bytes (%s)", len(raw.Content), raw.MIMEType)

	doc, err := s.normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: normalise: %w", pageURL, err)
	}
	logger.Debug("Extracted %d characters, title %q", len(doc.Text), doc.Title)

	texts := s.chunker.Chunk(ctx, doc.Text, s.settings.Chunking.MaxTokens)
	if len(texts) == 0 {
		return nil, &domain.ExtractionError{URL: pageURL, Kind: domain.ExtractionNoContent}
	}
	logger.Debug("Created %d chunks", len(texts))

	// A failed delete of records that never existed is harmless.
	if err := s.vectorIndex.Delete(ctx, driven.URLFilter(pageURL)); err != nil {
		logger.Warn("Could not delete existing chunks for %s: %v", pageURL, err)
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{URL: pageURL, Index: i, Text: text}
	}

	if strategy.RequiresEmbedding() {
		if err := s.embed(ctx, chunks); err != nil {
			return nil, fmt.Errorf("ingest %s: %w", pageURL, err)
		}
	} else {
		placeholder := domain.PlaceholderVector(s.settings.Embedding.Dimensions)
		for i := range chunks {
			chunks[i].Keywords = keywords.Extract(chunks[i].Text, keywords.DefaultLimit)
			chunks[i].Embedding = placeholder
		}
	}

	if err := s.upsert(ctx, chunks); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", pageURL, err)
	}

	s.record(ctx, doc, len(chunks))

	logger.Info("Indexed %d chunks for %s", len(chunks), pageURL)
	return &domain.IngestResult{
		URL:         pageURL,
		ChunksCount: len(chunks),
		Indexed:     true,
		Message:     fmt.Sprintf("Indexed %d chunks", len(chunks)),
	}, nil
}

// embed fills chunk embeddings in sequential batches.
func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) error {
	size := s.settings.Ingest.EmbedBatchSize
	if size <= 0 {
		size = domain.DefaultEmbedBatchSize
	}

	for start := 0; start < len(chunks); start += size {
		end := min(start+size, len(chunks))
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		logger.Debug("Embedding batch %d-%d", start, end)
		vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
		if err != nil {
			return &domain.EmbeddingError{Op: "embed_batch", Err: err}
		}
		if len(vectors) != len(texts) {
			return &domain.EmbeddingError{
				Op:  "embed_batch",
				Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors)),
			}
		}
		for i, v := range vectors {
			chunks[start+i].Embedding = v
		}
	}
	return nil
}

// upsert writes chunk records in sequential batches.
func (s *IngestService) upsert(ctx context.Context, chunks []domain.Chunk) error {
	size := s.settings.Ingest.UpsertBatchSize
	if size <= 0 {
		size = domain.DefaultUpsertBatchSize
	}

	for start := 0; start < len(chunks); start += size {
		end := min(start+size, len(chunks))
		records := make([]domain.IndexRecord, 0, end-start)
		for _, c := range chunks[start:end] {
			records = append(records, c.Record())
		}

		logger.Debug("Upserting batch %d-%d", start, end)
		if err := s.vectorIndex.Upsert(ctx, records); err != nil {
			logger.Warn("Upsert failed: %v", err)
			return &domain.IndexError{Op: domain.IndexUpsertFailed, Err: err}
		}
	}
	return nil
}

// record adds the page to the ingestion ledger. Failures are logged only.
func (s *IngestService) record(ctx context.Context, doc *domain.Document, count int) {
	if s.ingestionStore == nil {
		return
	}
	rec := domain.IngestionRecord{
		URL:         doc.URL,
		Title:       doc.Title,
		ChunksCount: count,
		Strategy:    s.settings.Scoring.Strategy,
		IndexedAt:   s.now(),
	}
	if err := s.ingestionStore.Save(ctx, rec); err != nil {
		logger.Warn("Could not record ingestion of %s: %v", doc.URL, err)
	}
}

// validateURL trims rawURL and checks it is an absolute http(s) address.
func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q is not an http(s) URL", domain.ErrInvalidInput, rawURL)
	}
	return rawURL, nil
}
