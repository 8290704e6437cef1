// Package mcp provides an MCP (Model Context Protocol) server adapter for pagesearch.
// It lets AI assistants ingest web pages and search their indexed chunks.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrIngestUnavailable is returned by fetch_url when no ingest service is wired.
var ErrIngestUnavailable = errors.New("mcp: ingestion is not available")

// toolError rewrites pipeline errors into messages an assistant can act on.
func toolError(err error) error {
	var (
		fetchErr  *domain.FetchError
		cfgErr    *domain.ConfigurationError
		extractEr *domain.ExtractionError
	)
	switch {
	case errors.As(err, &fetchErr):
		if fetchErr.Kind == domain.FetchHTTPStatus {
			return fmt.Errorf("could not fetch %s: server returned status %d", fetchErr.URL, fetchErr.StatusCode)
		}
		return fmt.Errorf("could not fetch %s: %s", fetchErr.URL, fetchErr.Kind)
	case errors.As(err, &extractEr):
		return fmt.Errorf("no indexable text found at %s", extractEr.URL)
	case errors.As(err, &cfgErr):
		return fmt.Errorf("pagesearch is misconfigured (%s): %w", cfgErr.Setting, err)
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Errorf("invalid input: %w", err)
	default:
		return err
	}
}
