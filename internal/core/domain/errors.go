package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoContent indicates a page produced no indexable text.
	ErrNoContent = errors.New("no content extracted")

	// ErrMissingCredentials indicates a backend needs an API key that is not set.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The hybrid strategy cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)

// FetchErrorKind classifies fetch failures.
type FetchErrorKind string

// Fetch failure kinds.
const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchNetwork    FetchErrorKind = "network"
	FetchHTTPStatus FetchErrorKind = "http-status"
)

// FetchError is returned when page markup could not be retrieved.
type FetchError struct {
	URL        string
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchTimeout:
		return fmt.Sprintf("fetch %s: request timed out", e.URL)
	case FetchHTTPStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionErrorKind classifies extraction failures.
type ExtractionErrorKind string

// ExtractionNoContent means extraction and chunking produced nothing.
const ExtractionNoContent ExtractionErrorKind = "no-content"

// ExtractionError is returned when a fetched page yields nothing to index.
type ExtractionError struct {
	URL  string
	Kind ExtractionErrorKind
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.URL, e.Kind)
}

// Unwrap maps the kind onto its sentinel.
func (e *ExtractionError) Unwrap() error {
	if e.Kind == ExtractionNoContent {
		return ErrNoContent
	}
	return nil
}

// ConfigurationErrorKind classifies configuration failures.
type ConfigurationErrorKind string

// Configuration failure kinds.
const (
	ConfigMissingCredentials ConfigurationErrorKind = "missing-credentials"
	ConfigInvalid            ConfigurationErrorKind = "invalid"
)

// ConfigurationError is returned when settings cannot produce a working service.
type ConfigurationError struct {
	// Setting is the offending configuration key.
	Setting string
	Kind    ConfigurationErrorKind
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration %s: %s: %v", e.Setting, e.Kind, e.Err)
	}
	return fmt.Sprintf("configuration %s: %s", e.Setting, e.Kind)
}

// Unwrap returns the cause, or ErrMissingCredentials for missing keys.
func (e *ConfigurationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if e.Kind == ConfigMissingCredentials {
		return ErrMissingCredentials
	}
	return ErrInvalidInput
}

// EmbeddingError wraps a failure of the embedding provider.
type EmbeddingError struct {
	// Op is "embed" or "embed_batch".
	Op  string
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding %s: %v", e.Op, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// IndexOp names the vector index operation that failed.
type IndexOp string

// Index failure kinds.
const (
	IndexDeleteFailed IndexOp = "delete-failed"
	IndexUpsertFailed IndexOp = "upsert-failed"
	IndexQueryFailed  IndexOp = "query-failed"
)

// IndexError wraps a failure of the vector index.
type IndexError struct {
	Op  IndexOp
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("vector index %s: %v", e.Op, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }
