package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// Health payload shared with the HTTP API.
const (
	HealthStatus  = "healthy"
	HealthService = "HTML Chunk Search API"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query"`
	URL   string `json:"url,omitempty" jsonschema:"restrict results to chunks of this page"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// FetchInput is the input schema for the fetch_url tool.
type FetchInput struct {
	URL string `json:"url" jsonschema:"the http or https page to fetch and index"`
}

// HealthInput is the empty input of the health tool.
type HealthInput struct{}

// HealthOutput is the output schema for the health tool.
type HealthOutput struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed web page chunks, ranked by relevance",
	}, s.handleSearch)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "fetch_url",
			Description: "Fetch a web page, split it into chunks and index them for search",
		}, s.handleFetch)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "health",
		Description: "Report service health",
	}, s.handleHealth)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultTopK
	}

	opts := domain.SearchOptions{URL: input.URL, TopK: limit}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	return nil, SearchOutput{Query: input.Query, Results: results, Count: len(results)}, nil
}

// handleFetch handles the fetch_url tool invocation.
func (s *Server) handleFetch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FetchInput,
) (*mcp.CallToolResult, domain.IngestResult, error) {
	if s.ports.Ingest == nil {
		return nil, domain.IngestResult{}, ErrIngestUnavailable
	}

	result, err := s.ports.Ingest.Ingest(ctx, input.URL)
	if err != nil {
		return nil, domain.IngestResult{}, toolError(err)
	}
	return nil, *result, nil
}

// handleHealth handles the health tool invocation.
func (s *Server) handleHealth(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ HealthInput,
) (*mcp.CallToolResult, HealthOutput, error) {
	return nil, HealthOutput{Status: HealthStatus, Service: HealthService}, nil
}
