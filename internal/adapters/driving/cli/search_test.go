package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search indexed page chunks", searchCmd.Short)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasFlags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)

	assert.NotNil(t, searchCmd.Flags().Lookup("url"))
	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
}

func TestSearchCmd_NoResults(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("search", "goroutines")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_FindsIngestedPage(t *testing.T) {
	pageURL := setupTestServices(t)
	_, err := executeCommand("ingest", pageURL)
	require.NoError(t, err)

	out, err := executeCommand("search", "goroutines")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, pageURL+" #0")
	assert.Contains(t, out, "1/1 keywords")
	assert.Contains(t, out, "Goroutines are lightweight threads")
	assert.NotContains(t, out, "tracking")
}

func TestSearchCmd_JSONWithURLFilter(t *testing.T) {
	pageURL := setupTestServices(t)
	_, err := executeCommand("ingest", pageURL)
	require.NoError(t, err)

	out, err := executeCommand("search", "--json", "--url", pageURL, "channels goroutines")
	require.NoError(t, err)

	var payload struct {
		Query   string                `json:"query"`
		Results []domain.SearchResult `json:"results"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &payload))
	assert.Equal(t, "channels goroutines", payload.Query)
	require.Equal(t, 1, payload.Count)
	assert.Equal(t, pageURL, payload.Results[0].URL)
	assert.Nil(t, payload.Results[0].SemanticScore)
	assert.Greater(t, payload.Results[0].RelevanceScore, 0.0)
}

func TestSearchCmd_URLFilterExcludesOtherPages(t *testing.T) {
	pageURL := setupTestServices(t)
	_, err := executeCommand("ingest", pageURL)
	require.NoError(t, err)

	out, err := executeCommand("search", "--url", "https://other.example.com", "goroutines")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}
