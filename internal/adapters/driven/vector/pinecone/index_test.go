package pinecone

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// fakePinecone serves both the control plane and a data plane.
type fakePinecone struct {
	mu          sync.Mutex
	url         string
	exists      bool
	describes   int
	readyAfter  int
	createBody  map[string]any
	vectors     map[string]pcVector
	lastQuery   map[string]any
	lastDelete  map[string]any
	missingAuth bool
}

func (f *fakePinecone) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Api-Key") != "pc-key" || r.Header.Get("X-Pinecone-API-Version") == "" {
		f.missingAuth = true
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case "/indexes/html-chunks":
		if !f.exists {
			http.Error(w, `{"error":{"code":"NOT_FOUND"}}`, http.StatusNotFound)
			return
		}
		f.describes++
		ready := f.describes > f.readyAfter
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":   "html-chunks",
			"host":   f.url,
			"status": map[string]any{"ready": ready, "state": "Initializing"},
		})
	case "/indexes":
		_ = json.NewDecoder(r.Body).Decode(&f.createBody)
		f.exists = true
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"html-chunks"}`))
	case "/vectors/upsert":
		var body struct {
			Vectors []pcVector `json:"vectors"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, v := range body.Vectors {
			f.vectors[v.ID] = v
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"upsertedCount": len(body.Vectors)})
	case "/vectors/delete":
		_ = json.NewDecoder(r.Body).Decode(&f.lastDelete)
		filter, _ := f.lastDelete["filter"].(map[string]any)
		for id, v := range f.vectors {
			if matchesFilter(v, filter) {
				delete(f.vectors, id)
			}
		}
		_, _ = w.Write([]byte(`{}`))
	case "/query":
		_ = json.NewDecoder(r.Body).Decode(&f.lastQuery)
		filter, _ := f.lastQuery["filter"].(map[string]any)
		type match struct {
			ID       string         `json:"id"`
			Score    float64        `json:"score"`
			Metadata map[string]any `json:"metadata"`
		}
		var out []match
		for _, v := range f.vectors {
			if matchesFilter(v, filter) {
				out = append(out, match{ID: v.ID, Score: float64(v.Values[0]), Metadata: v.Metadata})
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
		_ = json.NewEncoder(w).Encode(map[string]any{"matches": out})
	case "/describe_index_stats":
		_ = json.NewEncoder(w).Encode(map[string]int{"totalVectorCount": len(f.vectors)})
	default:
		http.NotFound(w, r)
	}
}

func matchesFilter(v pcVector, filter map[string]any) bool {
	for field, cond := range filter {
		eq, _ := cond.(map[string]any)["$eq"].(string)
		if got, _ := v.Metadata[field].(string); got != eq {
			return false
		}
	}
	return true
}

func newFake(t *testing.T, exists bool) (*fakePinecone, *httptest.Server) {
	t.Helper()
	fake := &fakePinecone{exists: exists, vectors: map[string]pcVector{}}
	server := httptest.NewServer(fake)
	fake.url = server.URL
	t.Cleanup(server.Close)
	return fake, server
}

func newIndex(t *testing.T, server *httptest.Server) *Index {
	t.Helper()
	idx, err := New(Config{
		APIKey:       "pc-key",
		ControlURL:   server.URL,
		Dimensions:   2,
		PollInterval: time.Millisecond,
		ReadyTimeout: time.Second,
	})
	require.NoError(t, err)
	return idx
}

func rec(url string, i int, text string, score float32) domain.IndexRecord {
	return domain.Chunk{URL: url, Index: i, Text: text, Embedding: []float32{score, 0}}.Record()
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, domain.ConfigMissingCredentials, cfgErr.Kind)
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestNormaliseHost(t *testing.T) {
	assert.Equal(t, "https://idx.svc.pinecone.io", normaliseHost("idx.svc.pinecone.io"))
	assert.Equal(t, "http://localhost:1", normaliseHost("http://localhost:1/"))
	assert.Empty(t, normaliseHost(""))
}

func TestResolveHost_CreatesMissingIndex(t *testing.T) {
	fake, server := newFake(t, false)
	fake.readyAfter = 2
	idx := newIndex(t, server)

	require.NoError(t, idx.Upsert(context.Background(), []domain.IndexRecord{rec("https://a", 0, "x", 1)}))

	require.NotNil(t, fake.createBody)
	assert.Equal(t, "html-chunks", fake.createBody["name"])
	assert.Equal(t, "cosine", fake.createBody["metric"])
	assert.InDelta(t, 2, fake.createBody["dimension"], 0)
	spec := fake.createBody["spec"].(map[string]any)["serverless"].(map[string]any)
	assert.Equal(t, "us-east-1", spec["region"])
	assert.Equal(t, 3, fake.describes)
	assert.Len(t, fake.vectors, 1)
	assert.False(t, fake.missingAuth)
}

func TestQueryDeleteCount(t *testing.T) {
	ctx := context.Background()
	fake, server := newFake(t, true)
	idx := newIndex(t, server)

	require.NoError(t, idx.Upsert(ctx, []domain.IndexRecord{
		rec("https://a", 0, "low", 0.2),
		rec("https://a", 1, "high", 0.9),
		rec("https://b", 2, "other", 0.5),
	}))

	got, err := idx.Query(ctx, []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].ChunkText)
	assert.Equal(t, 1, got[0].ChunkIndex)
	assert.Equal(t, domain.RecordID("https://a", 1), got[0].ID)
	assert.Equal(t, true, fake.lastQuery["includeMetadata"])
	assert.InDelta(t, 5, fake.lastQuery["topK"], 0)

	f := driven.URLFilter("https://b")
	got, err = idx.Query(ctx, []float32{1, 0}, 5, &f)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://b", got[0].URL)

	require.NoError(t, idx.Delete(ctx, driven.URLFilter("https://a")))
	assert.Equal(t, map[string]any{"url": map[string]any{"$eq": "https://a"}}, fake.lastDelete["filter"])

	n, err := idx.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolveHost_ConfiguredHostSkipsControlPlane(t *testing.T) {
	fake, server := newFake(t, false)
	idx, err := New(Config{APIKey: "pc-key", Host: server.URL, ControlURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	require.NoError(t, idx.Upsert(context.Background(), []domain.IndexRecord{rec("https://a", 0, "x", 1)}))

	assert.Nil(t, fake.createBody)
	assert.Len(t, fake.vectors, 1)
}

func TestResolveHost_NotReadyTimesOut(t *testing.T) {
	fake, server := newFake(t, false)
	fake.readyAfter = 1 << 30
	idx, err := New(Config{
		APIKey:       "pc-key",
		ControlURL:   server.URL,
		PollInterval: time.Millisecond,
		ReadyTimeout: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = idx.Query(context.Background(), []float32{1, 0}, 1, nil)
	assert.Error(t, err)
}
