// Package langchain provides an embedding service adapter backed by
// langchaingo's Ollama client.
package langchain

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/embedding"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultServerURL  = "http://localhost:11434"
	DefaultModel      = "all-minilm"
	DefaultDimensions = 384
	DefaultBatchSize  = 10
)

// Config holds configuration for the langchaingo embedding service.
type Config struct {
	// ServerURL is the Ollama server address.
	ServerURL string

	// Model is the embedding model to use (default: all-minilm).
	Model string

	// Dimensions is the expected embedding vector size.
	Dimensions int

	// BatchSize is the number of texts langchaingo sends per call.
	BatchSize int
}

// EmbeddingService generates embeddings through a langchaingo embedder.
type EmbeddingService struct {
	embedder   embeddings.Embedder
	model      string
	dimensions int
}

// NewEmbeddingService creates an embedding service talking to Ollama via langchaingo.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("langchain: create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(cfg.BatchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("langchain: create embedder: %w", err)
	}

	return NewWithEmbedder(embedder, cfg.Model, cfg.Dimensions), nil
}

// NewWithEmbedder wraps an existing langchaingo embedder.
func NewWithEmbedder(embedder embeddings.Embedder, model string, dimensions int) *EmbeddingService {
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		embedder:   embedder,
		model:      model,
		dimensions: dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("langchain: embed query: %w", err)
	}
	vectors := [][]float32{embedding.Normalize(v)}
	if err := embedding.CheckDimensions(vectors, s.dimensions); err != nil {
		return nil, fmt.Errorf("langchain model %s: %w", s.model, err)
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("langchain: embed documents: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("langchain: got %d embeddings for %d inputs", len(vectors), len(texts))
	}
	for _, v := range vectors {
		embedding.Normalize(v)
	}
	if err := embedding.CheckDimensions(vectors, s.dimensions); err != nil {
		return nil, fmt.Errorf("langchain model %s: %w", s.model, err)
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a short probe string.
// langchaingo exposes no listing endpoint, so a real round trip is the only check.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.embedder.EmbedQuery(ctx, "ping"); err != nil {
		return fmt.Errorf("langchain: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
