package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [url...]", ingestCmd.Use)
}

func TestIngestCmd_Flags(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("concurrency")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "4", flag.DefValue)
}

func TestIngestCmd_RequiresURL(t *testing.T) {
	_, err := executeCommand("ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_IndexesPage(t *testing.T) {
	pageURL := setupTestServices(t)

	out, err := executeCommand("ingest", pageURL)

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1 chunks from "+pageURL)
}

func TestIngestCmd_JSON(t *testing.T) {
	pageURL := setupTestServices(t)

	out, err := executeCommand("ingest", "--json", pageURL)
	require.NoError(t, err)

	var result domain.IngestResult
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &result))
	assert.Equal(t, pageURL, result.URL)
	assert.True(t, result.Indexed)
	assert.Equal(t, 1, result.ChunksCount)
}

func TestIngestCmd_MissingPage(t *testing.T) {
	pageURL := setupTestServices(t)

	_, err := executeCommand("ingest", strings.TrimSuffix(pageURL, "/page")+"/missing")

	require.Error(t, err)
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.FetchHTTPStatus, fetchErr.Kind)
	assert.Equal(t, 404, fetchErr.StatusCode)
}

func TestIngestCmd_InvalidURL(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand("ingest", "ftp://example.com/file")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestCmd_MultipleURLs(t *testing.T) {
	pageURL := setupTestServices(t)
	missing := strings.TrimSuffix(pageURL, "/page") + "/missing"

	out, err := executeCommand("ingest", "-c", "2", pageURL, missing)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed for 1 of 2 pages")
	assert.Contains(t, err.Error(), missing)
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, out, "Indexed 1 chunks from "+pageURL)
}

func TestIngestCmd_MultipleURLsJSON(t *testing.T) {
	pageURL := setupTestServices(t)

	out, err := executeCommand("ingest", "--json", pageURL, pageURL)
	require.NoError(t, err)

	var results []domain.IngestResult
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &results))
	require.Len(t, results, 2)
	assert.Equal(t, pageURL, results[0].URL)
}
