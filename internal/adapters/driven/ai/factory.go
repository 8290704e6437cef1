// Package ai builds the service context: the embedding provider, vector
// index, tokenizer and pipeline components selected by application settings.
//
// The context is constructed once at process start and injected into the
// ingestion and query orchestrators.
package ai

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	langchainembed "github.com/custodia-labs/pagesearch/internal/adapters/driven/embedding/langchain"
	ollamaembed "github.com/custodia-labs/pagesearch/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/pagesearch/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/fetch"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/pagesearch/internal/chunker"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
	"github.com/custodia-labs/pagesearch/internal/normalisers"
	htmlnorm "github.com/custodia-labs/pagesearch/internal/normalisers/html"
	"github.com/custodia-labs/pagesearch/internal/normalisers/markdown"
	"github.com/custodia-labs/pagesearch/internal/normalisers/plaintext"
	"github.com/custodia-labs/pagesearch/internal/scoring"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// IndexDirName is the chromem directory inside the data directory.
const IndexDirName = "index"

// ServiceContext holds every driven dependency of the pipeline.
type ServiceContext struct {
	Settings domain.AppSettings

	// EmbeddingService is nil under the keyword scoring strategy.
	EmbeddingService driven.EmbeddingService
	VectorIndex      driven.VectorIndex

	// Tokenizer is nil when word chunking is configured.
	Tokenizer  driven.Tokenizer
	Chunker    driven.Chunker
	Scorer     scoring.Scorer
	Fetcher    driven.Fetcher
	Normaliser driven.Normaliser
}

// Option configures service context construction.
type Option func(*options)

type options struct {
	dataDir string
}

// WithDataDir persists the embedded index under dir when no explicit
// vector_index.path is configured.
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.dataDir = dir
	}
}

// NewNormaliser returns the MIME dispatcher used for fetched pages.
// HTML handles anything not claimed by another normaliser.
func NewNormaliser() *normalisers.Registry {
	r := normalisers.NewRegistry(htmlnorm.New())
	r.Register(markdown.New())
	r.Register(plaintext.New())
	return r
}

// NewServiceContext builds the service context from settings.
// Missing credentials are reported as *domain.ConfigurationError.
func NewServiceContext(settings domain.AppSettings, opts ...Option) (*ServiceContext, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	scorer, err := scoring.New(settings.Scoring.Strategy)
	if err != nil {
		return nil, &domain.ConfigurationError{Setting: "scoring.strategy", Kind: domain.ConfigInvalid, Err: err}
	}

	sc := &ServiceContext{
		Settings:   settings,
		Scorer:     scorer,
		Normaliser: NewNormaliser(),
		Fetcher: fetch.New(fetch.Config{
			Timeout:       settings.Fetch.Timeout,
			UserAgent:     settings.Fetch.UserAgent,
			RatePerSecond: settings.Fetch.RatePerSecond,
		}),
	}

	if settings.Scoring.Strategy.RequiresEmbedding() {
		svc, err := CreateEmbeddingService(&settings.Embedding)
		if err != nil {
			return nil, err
		}
		sc.EmbeddingService = svc
	}

	vectorSettings := settings.VectorIndex
	if vectorSettings.Backend == domain.VectorBackendChromem && vectorSettings.Path == "" && o.dataDir != "" {
		vectorSettings.Path = filepath.Join(o.dataDir, IndexDirName)
	}
	index, err := CreateVectorIndex(vectorSettings, settings.Embedding.Dimensions)
	if err != nil {
		_ = sc.Close()
		return nil, err
	}
	sc.VectorIndex = index

	chunkOpts := []chunker.Option{chunker.WithChunkSize(settings.Chunking.MaxTokens)}
	if settings.Chunking.Encoding != "" {
		sc.Tokenizer = tiktoken.New(settings.Chunking.Encoding)
		chunkOpts = append(chunkOpts, chunker.WithTokenizer(sc.Tokenizer))
	}
	sc.Chunker = chunker.New(chunkOpts...)

	logger.Debug("Service context: strategy=%s backend=%s", settings.Scoring.Strategy, vectorSettings.Backend)
	return sc, nil
}

// Ping validates connectivity of the embedding service, if any.
func (c *ServiceContext) Ping(ctx context.Context) error {
	if c.EmbeddingService == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.EmbeddingService.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Run 'pagesearch settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Close releases all resources held by the context.
func (c *ServiceContext) Close() error {
	var errs []error
	if c.EmbeddingService != nil {
		errs = append(errs, c.EmbeddingService.Close())
	}
	if c.VectorIndex != nil {
		errs = append(errs, c.VectorIndex.Close())
	}
	return errors.Join(errs...)
}

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.Provider.IsValid() {
		provider := domain.AIProvider("")
		if settings != nil {
			provider = settings.Provider
		}
		return nil, &domain.ConfigurationError{
			Setting: "embedding.provider",
			Kind:    domain.ConfigInvalid,
			Err:     fmt.Errorf("%w: %q", domain.ErrUnsupportedType, provider),
		}
	}
	if !settings.IsConfigured() {
		return nil, &domain.ConfigurationError{Setting: "embedding.api_key", Kind: domain.ConfigMissingCredentials}
	}

	dimensions := settings.Dimensions
	if dimensions <= 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderLangChain:
		svc, err := langchainembed.NewEmbeddingService(langchainembed.Config{
			ServerURL:  settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateVectorIndex creates the vector index selected by settings.
func CreateVectorIndex(settings domain.VectorIndexSettings, dimensions int) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.VectorBackendChromem:
		index, err := chromem.New(chromem.Config{
			Path:       settings.Path,
			Collection: settings.Collection,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, err
		}
		return index, nil

	case domain.VectorBackendQdrant:
		return qdrant.New(qdrant.Config{
			URL:        settings.URL,
			APIKey:     settings.APIKey,
			Collection: settings.Collection,
			Dimensions: dimensions,
		}), nil

	case domain.VectorBackendPinecone:
		index, err := pinecone.New(pinecone.Config{
			APIKey:     settings.APIKey,
			Host:       settings.URL,
			IndexName:  settings.Collection,
			Region:     settings.Environment,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, err
		}
		return index, nil

	default:
		return nil, &domain.ConfigurationError{
			Setting: "vector_index.backend",
			Kind:    domain.ConfigInvalid,
			Err:     fmt.Errorf("%w: %q", domain.ErrUnsupportedType, settings.Backend),
		}
	}
}
