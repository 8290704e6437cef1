package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// historyURI is the resource listing ingested pages.
const historyURI = "pagesearch://history"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "history",
		Description: "Web pages indexed so far, most recent first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleHistoryResource returns the ingestion ledger.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries := []domain.IngestionRecord{}
	if s.ports.History != nil {
		records, err := s.ports.History.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing history: %w", err)
		}
		entries = append(entries, records...)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
