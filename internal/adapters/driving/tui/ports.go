// Package tui provides an interactive terminal user interface for pagesearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks indexed chunks against a query.
	Search driving.SearchService

	// Ingest fetches and indexes pages.
	Ingest driving.IngestService

	// History lists ingested pages. Optional.
	History driving.HistoryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	search driving.SearchService,
	ingest driving.IngestService,
	history driving.HistoryService,
) *Ports {
	return &Ports{
		Search:  search,
		Ingest:  ingest,
		History: history,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	return nil
}
