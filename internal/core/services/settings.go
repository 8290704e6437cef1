package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyScoringStrategy   = "scoring.strategy"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedDimensions   = "embedding.dimensions"
	keyVectorBackend     = "vector_index.backend"
	keyVectorPath        = "vector_index.path"
	keyVectorURL         = "vector_index.url"
	keyVectorAPIKey      = "vector_index.api_key"
	keyVectorCollection  = "vector_index.collection"
	keyVectorEnvironment = "vector_index.environment"
	keyChunkMaxTokens    = "chunking.max_tokens"
	keyChunkEncoding     = "chunking.encoding"
	keyFetchTimeout      = "fetch.timeout_secs"
	keyFetchUserAgent    = "fetch.user_agent"
	keyFetchRate         = "fetch.rate_per_sec"
	keySearchTopK        = "search.top_k"
	keySearchMultiplier  = "search.fetch_multiplier"
	keySearchCap         = "search.fetch_cap"
	keyIngestEmbedBatch  = "ingest.embed_batch"
	keyIngestUpsertBatch = "ingest.upsert_batch"
)

// Environment variables that override stored secrets.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvEmbeddingAPIKey = "PAGESEARCH_EMBEDDING_API_KEY"
	EnvVectorAPIKey    = "PAGESEARCH_VECTOR_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvPineconeAPIKey  = "PINECONE_API_KEY"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindStrategy
	kindProvider
	kindBackend
)

// settingKinds lists every key accepted by Set.
var settingKinds = map[string]valueKind{
	keyScoringStrategy:   kindStrategy,
	keyEmbedProvider:     kindProvider,
	keyEmbedModel:        kindString,
	keyEmbedBaseURL:      kindString,
	keyEmbedAPIKey:       kindString,
	keyEmbedDimensions:   kindInt,
	keyVectorBackend:     kindBackend,
	keyVectorPath:        kindString,
	keyVectorURL:         kindString,
	keyVectorAPIKey:      kindString,
	keyVectorCollection:  kindString,
	keyVectorEnvironment: kindString,
	keyChunkMaxTokens:    kindInt,
	keyChunkEncoding:     kindString,
	keyFetchTimeout:      kindInt,
	keyFetchUserAgent:    kindString,
	keyFetchRate:         kindFloat,
	keySearchTopK:        kindInt,
	keySearchMultiplier:  kindInt,
	keySearchCap:         kindInt,
	keyIngestEmbedBatch:  kindInt,
	keyIngestUpsertBatch: kindInt,
}

// SettingKeys returns every key accepted by Set, sorted as declared in
// the config file.
func SettingKeys() []string {
	return []string{
		keyScoringStrategy,
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyEmbedDimensions,
		keyVectorBackend, keyVectorPath, keyVectorURL, keyVectorAPIKey, keyVectorCollection, keyVectorEnvironment,
		keyChunkMaxTokens, keyChunkEncoding,
		keyFetchTimeout, keyFetchUserAgent, keyFetchRate,
		keySearchTopK, keySearchMultiplier, keySearchCap,
		keyIngestEmbedBatch, keyIngestUpsertBatch,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// Secrets in the process environment override stored values.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Used in tests.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	strategy := s.getStrategy(defaults.Scoring.Strategy)
	searchDefaults := domain.DefaultSearchSettings(strategy)

	provider := s.getProvider(defaults.Embedding.Provider)
	model := s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[provider])
	backend := s.getBackend(defaults.VectorIndex.Backend)

	settings := &domain.AppSettings{
		Scoring: domain.ScoringSettings{Strategy: strategy},
		Embedding: domain.EmbeddingSettings{
			Provider:   provider,
			Model:      model,
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // Empty selects the provider default
			APIKey:     s.firstEnv(s.configStore.GetString(keyEmbedAPIKey), embeddingEnv(provider)...),
			Dimensions: s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
		},
		VectorIndex: domain.VectorIndexSettings{
			Backend:     backend,
			Path:        s.configStore.GetString(keyVectorPath), // Empty keeps the index in memory
			URL:         s.configStore.GetString(keyVectorURL),
			APIKey:      s.firstEnv(s.configStore.GetString(keyVectorAPIKey), vectorEnv(backend)...),
			Collection:  s.getString(keyVectorCollection, defaults.VectorIndex.Collection),
			Environment: s.getString(keyVectorEnvironment, defaults.VectorIndex.Environment),
		},
		Chunking: domain.ChunkingSettings{
			MaxTokens: s.getInt(keyChunkMaxTokens, defaults.Chunking.MaxTokens),
			Encoding:  s.getEncoding(defaults.Chunking.Encoding),
		},
		Fetch: domain.FetchSettings{
			Timeout:       time.Duration(s.getInt(keyFetchTimeout, int(defaults.Fetch.Timeout/time.Second))) * time.Second,
			UserAgent:     s.getString(keyFetchUserAgent, defaults.Fetch.UserAgent),
			RatePerSecond: s.getFloat(keyFetchRate, defaults.Fetch.RatePerSecond),
		},
		Search: domain.SearchSettings{
			TopK:            s.getInt(keySearchTopK, searchDefaults.TopK),
			FetchMultiplier: s.getInt(keySearchMultiplier, searchDefaults.FetchMultiplier),
			FetchCap:        s.getInt(keySearchCap, searchDefaults.FetchCap),
		},
		Ingest: domain.IngestSettings{
			EmbedBatchSize:  s.getInt(keyIngestEmbedBatch, defaults.Ingest.EmbedBatchSize),
			UpsertBatchSize: s.getInt(keyIngestUpsertBatch, defaults.Ingest.UpsertBatchSize),
		},
	}

	return settings, nil
}

// Save persists application settings.
// Secrets supplied through the environment are never written to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyScoringStrategy, settings.Scoring.Strategy.String()},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyVectorBackend, settings.VectorIndex.Backend.String()},
		{keyVectorPath, settings.VectorIndex.Path},
		{keyVectorURL, settings.VectorIndex.URL},
		{keyVectorCollection, settings.VectorIndex.Collection},
		{keyVectorEnvironment, settings.VectorIndex.Environment},
		{keyChunkMaxTokens, settings.Chunking.MaxTokens},
		{keyChunkEncoding, settings.Chunking.Encoding},
		{keyFetchTimeout, int(settings.Fetch.Timeout / time.Second)},
		{keyFetchUserAgent, settings.Fetch.UserAgent},
		{keyFetchRate, settings.Fetch.RatePerSecond},
		{keySearchTopK, settings.Search.TopK},
		{keySearchMultiplier, settings.Search.FetchMultiplier},
		{keySearchCap, settings.Search.FetchCap},
		{keyIngestEmbedBatch, settings.Ingest.EmbedBatchSize},
		{keyIngestUpsertBatch, settings.Ingest.UpsertBatchSize},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if key := settings.Embedding.APIKey; key != "" && !s.fromEnv(key, embeddingEnv(settings.Embedding.Provider)...) {
		if err := s.configStore.Set(keyEmbedAPIKey, key); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if key := settings.VectorIndex.APIKey; key != "" && !s.fromEnv(key, vectorEnv(settings.VectorIndex.Backend)...) {
		if err := s.configStore.Set(keyVectorAPIKey, key); err != nil {
			return fmt.Errorf("save %s: %w", keyVectorAPIKey, err)
		}
	}

	return nil
}

// Set updates a single setting by its dotted key.
// The value is parsed and validated according to the key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindStrategy:
		if !domain.ScoringStrategy(value).IsValid() {
			return fmt.Errorf("%w: invalid scoring strategy: %s", domain.ErrInvalidInput, value)
		}
		typed = value
	case kindProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, value)
		}
		typed = value
	case kindBackend:
		if !domain.VectorBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid vector backend: %s", domain.ErrInvalidInput, value)
		}
		typed = value
	default:
		typed = value
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetScoringStrategy updates the scoring strategy.
func (s *SettingsService) SetScoringStrategy(strategy domain.ScoringStrategy) error {
	if !strategy.IsValid() {
		return fmt.Errorf("invalid scoring strategy: %s", strategy)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Over-fetch policy follows the strategy unless it was customised.
	oldDefaults := domain.DefaultSearchSettings(settings.Scoring.Strategy)
	newDefaults := domain.DefaultSearchSettings(strategy)
	if settings.Search.FetchMultiplier == oldDefaults.FetchMultiplier {
		settings.Search.FetchMultiplier = newDefaults.FetchMultiplier
	}
	if settings.Search.FetchCap == oldDefaults.FetchCap {
		settings.Search.FetchCap = newDefaults.FetchCap
	}

	settings.Scoring.Strategy = strategy
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Validate API key if required
	if apiKey == "" {
		apiKey = s.firstEnv("", embeddingEnv(provider)...)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return &domain.ConfigurationError{Setting: keyEmbedAPIKey, Kind: domain.ConfigMissingCredentials}
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// Provider defaults apply when the base URL is empty
	settings.Embedding.BaseURL = ""
	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetVectorBackend configures the vector index backend.
func (s *SettingsService) SetVectorBackend(backend domain.VectorBackend, url, apiKey string) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" {
		apiKey = s.firstEnv("", vectorEnv(backend)...)
	}
	if backend.RequiresAPIKey() && apiKey == "" {
		return &domain.ConfigurationError{Setting: keyVectorAPIKey, Kind: domain.ConfigMissingCredentials}
	}

	settings.VectorIndex.Backend = backend
	settings.VectorIndex.URL = url
	settings.VectorIndex.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks if current settings can build a working pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// ValidateSettings checks settings for missing credentials and invalid values.
func ValidateSettings(settings *domain.AppSettings) error {
	if !settings.Scoring.Strategy.IsValid() {
		return &domain.ConfigurationError{
			Setting: keyScoringStrategy,
			Kind:    domain.ConfigInvalid,
			Err:     fmt.Errorf("%w: %s", domain.ErrUnsupportedType, settings.Scoring.Strategy),
		}
	}

	// Check embedding configuration if required
	if settings.Scoring.Strategy.RequiresEmbedding() {
		emb := settings.Embedding
		if !emb.Provider.IsValid() {
			return &domain.ConfigurationError{
				Setting: keyEmbedProvider,
				Kind:    domain.ConfigInvalid,
				Err:     fmt.Errorf("%w: %s", domain.ErrUnsupportedType, emb.Provider),
			}
		}
		if !emb.IsConfigured() {
			return &domain.ConfigurationError{Setting: keyEmbedAPIKey, Kind: domain.ConfigMissingCredentials}
		}
	}
	if settings.Embedding.Dimensions <= 0 {
		return &domain.ConfigurationError{
			Setting: keyEmbedDimensions,
			Kind:    domain.ConfigInvalid,
			Err:     errors.New("dimensions must be positive"),
		}
	}

	vec := settings.VectorIndex
	if !vec.Backend.IsValid() {
		return &domain.ConfigurationError{
			Setting: keyVectorBackend,
			Kind:    domain.ConfigInvalid,
			Err:     fmt.Errorf("%w: %s", domain.ErrUnsupportedType, vec.Backend),
		}
	}
	if vec.Backend.RequiresAPIKey() && vec.APIKey == "" {
		return &domain.ConfigurationError{Setting: keyVectorAPIKey, Kind: domain.ConfigMissingCredentials}
	}
	if vec.Backend == domain.VectorBackendQdrant && vec.URL == "" {
		return &domain.ConfigurationError{
			Setting: keyVectorURL,
			Kind:    domain.ConfigInvalid,
			Err:     errors.New("qdrant requires a server URL"),
		}
	}

	return nil
}

// RequiresEmbedding returns true if the current strategy needs embedding.
func (s *SettingsService) RequiresEmbedding() bool {
	settings, err := s.Get()
	if err != nil {
		return false
	}
	return settings.Scoring.Strategy.RequiresEmbedding()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getEncoding distinguishes an explicitly empty encoding, which selects
// word chunking, from an unset one.
func (s *SettingsService) getEncoding(defaultVal string) string {
	if _, exists := s.configStore.Get(keyChunkEncoding); !exists {
		return defaultVal
	}
	return s.configStore.GetString(keyChunkEncoding)
}

func (s *SettingsService) getStrategy(defaultVal domain.ScoringStrategy) domain.ScoringStrategy {
	strategy := domain.ScoringStrategy(s.configStore.GetString(keyScoringStrategy))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	backend := domain.VectorBackend(s.configStore.GetString(keyVectorBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// firstEnv returns the first non-empty environment variable of names,
// falling back to stored.
func (s *SettingsService) firstEnv(stored string, names ...string) string {
	for _, name := range names {
		if v := s.getenv(name); v != "" {
			return v
		}
	}
	return stored
}

// fromEnv reports whether value came from one of the environment variables.
func (s *SettingsService) fromEnv(value string, names ...string) bool {
	for _, name := range names {
		if v := s.getenv(name); v != "" && v == value {
			return true
		}
	}
	return false
}

func embeddingEnv(provider domain.AIProvider) []string {
	if provider == domain.AIProviderOpenAI {
		return []string{EnvEmbeddingAPIKey, EnvOpenAIAPIKey}
	}
	return []string{EnvEmbeddingAPIKey}
}

func vectorEnv(backend domain.VectorBackend) []string {
	if backend == domain.VectorBackendPinecone {
		return []string{EnvVectorAPIKey, EnvPineconeAPIKey}
	}
	return []string{EnvVectorAPIKey}
}
