package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/fetch"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/pagesearch/internal/chunker"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/services"
	htmlnorm "github.com/custodia-labs/pagesearch/internal/normalisers/html"
	"github.com/custodia-labs/pagesearch/internal/scoring"
)

const testPage = `<html><head><title>Go Concurrency</title></head>
<body><nav>Home | Blog</nav>
<p>Goroutines are lightweight threads managed by the Go runtime.</p>
<p>Channels let goroutines communicate safely.</p>
<script>var tracking = true;</script></body></html>`

// setupTestServices wires an in-memory keyword pipeline into the package
// globals and serves testPage from a local HTTP server. It returns the
// page URL.
func setupTestServices(t *testing.T) string {
	t.Helper()

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	}))

	settings := domain.DefaultAppSettings()
	settings.Scoring.Strategy = domain.ScoringKeyword
	settings.Search = domain.DefaultSearchSettings(domain.ScoringKeyword)
	settings.Chunking.Encoding = ""

	index, err := chromem.New(chromem.Config{Dimensions: settings.Embedding.Dimensions})
	require.NoError(t, err)
	scorer, err := scoring.New(domain.ScoringKeyword)
	require.NoError(t, err)

	store := memory.NewIngestionStore()
	ingest := services.NewIngestService(
		fetch.New(fetch.Config{Timeout: 5 * time.Second}),
		htmlnorm.New(),
		chunker.New(chunker.WithChunkSize(settings.Chunking.MaxTokens)),
		index,
		nil,
		settings,
	)
	ingest.SetIngestionStore(store)

	settingsSvc := services.NewSettingsService(memory.NewConfigStore(map[string]any{
		"scoring.strategy": string(domain.ScoringKeyword),
	}))
	settingsSvc.SetEnvLookup(func(string) string { return "" })

	prevSettings, prevSearch, prevIngest, prevHistory := settingsService, searchService, ingestService, historyService
	settingsService = settingsSvc
	searchService = services.NewSearchService(index, nil, scorer, settings)
	ingestService = ingest
	historyService = services.NewHistoryService(store)

	t.Cleanup(func() {
		page.Close()
		_ = index.Close()
		settingsService, searchService, ingestService, historyService = prevSettings, prevSearch, prevIngest, prevHistory
		resetFlags()
	})

	return page.URL + "/page"
}

// resetFlags restores flag variables shared across command executions.
func resetFlags() {
	searchLimit = domain.DefaultTopK
	searchURL = ""
	searchJSON = false
	ingestJSON = false
	ingestConcurrency = defaultIngestConcurrency
	historyJSON = false
	verbose = false
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
