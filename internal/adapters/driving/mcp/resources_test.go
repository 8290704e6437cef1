package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func historyRequest() *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: historyURI},
	}
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists ingested pages", func(t *testing.T) {
		indexedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		history := &mockHistoryService{
			records: []domain.IngestionRecord{
				{URL: "https://example.com", Title: "Example", ChunksCount: 4, Strategy: domain.ScoringHybrid, IndexedAt: indexedAt},
			},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, History: history})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, historyRequest())
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var entries []domain.IngestionRecord
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "Example", entries[0].Title)
		assert.Equal(t, 4, entries[0].ChunksCount)
		assert.Equal(t, domain.ScoringHybrid, entries[0].Strategy)
		assert.True(t, indexedAt.Equal(entries[0].IndexedAt))
	})

	t.Run("empty without history service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, historyRequest())
		require.NoError(t, err)
		assert.JSONEq(t, "[]", result.Contents[0].Text)
	})

	t.Run("history failure", func(t *testing.T) {
		history := &mockHistoryService{err: errors.New("db closed")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, History: history})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, historyRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db closed")
	})
}
