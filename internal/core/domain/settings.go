package domain

import "time"

const unknownDescription = "Unknown"

// ScoringStrategy selects how retrieved chunks are re-ranked.
type ScoringStrategy string

// Available scoring strategies.
const (
	// ScoringHybrid blends vector similarity with keyword evidence.
	ScoringHybrid ScoringStrategy = "hybrid"

	// ScoringKeyword ranks on keyword evidence only; no embeddings are computed.
	ScoringKeyword ScoringStrategy = "keyword"
)

// IsValid returns true if the strategy is recognised.
func (s ScoringStrategy) IsValid() bool {
	switch s {
	case ScoringHybrid, ScoringKeyword:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if this strategy needs an embedding provider.
func (s ScoringStrategy) RequiresEmbedding() bool {
	return s == ScoringHybrid
}

// String returns the string representation.
func (s ScoringStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ScoringStrategy) Description() string {
	switch s {
	case ScoringHybrid:
		return "Hybrid (semantic + keyword)"
	case ScoringKeyword:
		return "Keyword only"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API or a compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderLangChain is Ollama reached through langchaingo.
	AIProviderLangChain AIProvider = "langchain"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderLangChain:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderLangChain:
		return "Ollama via langchaingo (local)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies a vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendChromem is the embedded chromem-go store.
	VectorBackendChromem VectorBackend = "chromem"

	// VectorBackendQdrant is a Qdrant server reached over REST.
	VectorBackendQdrant VectorBackend = "qdrant"

	// VectorBackendPinecone is a Pinecone serverless index reached over REST.
	VectorBackendPinecone VectorBackend = "pinecone"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendChromem, VectorBackendQdrant, VectorBackendPinecone:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this backend needs an API key.
func (b VectorBackend) RequiresAPIKey() bool {
	return b == VectorBackendPinecone
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// ScoringSettings holds reranking configuration.
type ScoringSettings struct {
	// Strategy is the active scoring strategy.
	Strategy ScoringStrategy
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Backend selects the vector index implementation.
	Backend VectorBackend

	// Path is the on-disk directory for the chromem backend.
	// Empty keeps the index in memory.
	Path string

	// URL is the server or index host for remote backends.
	URL string

	// APIKey authenticates against remote backends.
	APIKey string

	// Collection is the collection or index name.
	Collection string

	// Environment is the cloud region for serverless backends.
	Environment string
}

// ChunkingSettings holds chunker configuration.
type ChunkingSettings struct {
	// MaxTokens is the maximum size of a chunk in units.
	MaxTokens int

	// Encoding is the tokenizer encoding name. Empty selects word chunking.
	Encoding string
}

// FetchSettings holds page fetcher configuration.
type FetchSettings struct {
	// Timeout bounds a single page fetch.
	Timeout time.Duration

	// UserAgent is sent with every fetch.
	UserAgent string

	// RatePerSecond throttles outbound fetches. Zero disables throttling.
	RatePerSecond float64
}

// SearchSettings holds query behaviour configuration.
type SearchSettings struct {
	// TopK is the default number of results.
	TopK int

	// FetchMultiplier scales TopK into the over-fetched candidate pool.
	FetchMultiplier int

	// FetchCap bounds the candidate pool.
	FetchCap int
}

// IngestSettings holds ingestion batching configuration.
type IngestSettings struct {
	// EmbedBatchSize is the number of chunks embedded per provider call.
	EmbedBatchSize int

	// UpsertBatchSize is the number of records written per index call.
	UpsertBatchSize int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Scoring     ScoringSettings
	Embedding   EmbeddingSettings
	VectorIndex VectorIndexSettings
	Chunking    ChunkingSettings
	Fetch       FetchSettings
	Search      SearchSettings
	Ingest      IngestSettings
}

// Defaults for settings that are not stored.
const (
	DefaultDimensions      = 384
	DefaultMaxTokens       = 500
	DefaultEncoding        = "cl100k_base"
	DefaultFetchTimeout    = 15 * time.Second
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultCollection      = "html-chunks"
	DefaultEnvironment     = "us-east-1"
	DefaultEmbedBatchSize  = 10
	DefaultUpsertBatchSize = 50
)

// DefaultAppSettings returns settings with sensible defaults.
// Hybrid scoring against a local Ollama all-minilm model and an in-memory
// chromem index works without any credentials.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Scoring: ScoringSettings{Strategy: ScoringHybrid},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModels()[AIProviderOllama],
			Dimensions: DefaultDimensions,
		},
		VectorIndex: VectorIndexSettings{
			Backend:     VectorBackendChromem,
			Collection:  DefaultCollection,
			Environment: DefaultEnvironment,
		},
		Chunking: ChunkingSettings{
			MaxTokens: DefaultMaxTokens,
			Encoding:  DefaultEncoding,
		},
		Fetch: FetchSettings{
			Timeout:   DefaultFetchTimeout,
			UserAgent: DefaultUserAgent,
		},
		Search: DefaultSearchSettings(ScoringHybrid),
		Ingest: IngestSettings{
			EmbedBatchSize:  DefaultEmbedBatchSize,
			UpsertBatchSize: DefaultUpsertBatchSize,
		},
	}
}

// DefaultSearchSettings returns the over-fetch policy for a strategy.
// Keyword-only scoring has no similarity order to lean on, so it pulls a
// wider pool.
func DefaultSearchSettings(strategy ScoringStrategy) SearchSettings {
	if strategy == ScoringKeyword {
		return SearchSettings{TopK: DefaultTopK, FetchMultiplier: 5, FetchCap: 100}
	}
	return SearchSettings{TopK: DefaultTopK, FetchMultiplier: 3, FetchCap: 30}
}

// AllScoringStrategies returns all available scoring strategies.
func AllScoringStrategies() []ScoringStrategy {
	return []ScoringStrategy{ScoringHybrid, ScoringKeyword}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderLangChain}
}

// AllVectorBackends returns all available vector backends.
func AllVectorBackends() []VectorBackend {
	return []VectorBackend{VectorBackendChromem, VectorBackendQdrant, VectorBackendPinecone}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "all-minilm",
		AIProviderOpenAI:    "text-embedding-3-small",
		AIProviderLangChain: "all-minilm",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models; text-embedding-3-* accept a dimensions parameter
		"text-embedding-3-small": 384,
		"text-embedding-3-large": 384,
		"text-embedding-ada-002": 1536,
	}
}
