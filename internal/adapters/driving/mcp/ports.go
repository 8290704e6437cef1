package mcp

import (
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers queries over indexed chunks.
	Search driving.SearchService

	// Ingest indexes pages. Optional; fetch_url is not offered without it.
	Ingest driving.IngestService

	// History lists ingested pages. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
