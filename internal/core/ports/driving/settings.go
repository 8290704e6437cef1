package driving

import "github.com/custodia-labs/pagesearch/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment
	// overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key (e.g., "scoring.strategy").
	Set(key, value string) error

	// SetScoringStrategy updates the scoring strategy.
	SetScoringStrategy(strategy domain.ScoringStrategy) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetVectorBackend configures the vector index backend.
	SetVectorBackend(backend domain.VectorBackend, url, apiKey string) error

	// Validate checks if current settings can build a working pipeline.
	Validate() error

	// RequiresEmbedding returns true if the current strategy needs embedding.
	RequiresEmbedding() bool

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
