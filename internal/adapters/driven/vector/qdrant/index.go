// Package qdrant provides a vector index backed by a Qdrant server over REST.
//
// Qdrant point ids must be unsigned integers or UUIDs, so each record id is
// mapped to a name-based UUID and the original id travels in the payload.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/vector"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultURL     = "http://localhost:6333"
	DefaultTimeout = 15 * time.Second
)

// payloadRecordID carries the record id alongside the UUID point id.
const payloadRecordID = "record_id"

// pointNamespace seeds point UUIDs.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("pagesearch/qdrant"))

// Config holds configuration for the Qdrant index.
type Config struct {
	// URL is the Qdrant REST endpoint (default: http://localhost:6333).
	URL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection name (default: html-chunks).
	Collection string

	// Dimensions is the vector size used when creating the collection.
	Dimensions int

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Index is a Qdrant collection.
type Index struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
	dimensions int

	mu    sync.Mutex
	ready bool
}

// New creates a Qdrant index client. The collection is created on first use.
func New(cfg Config) *Index {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollection
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.DefaultDimensions
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}
}

// PointID maps a record id onto a stable UUID.
func PointID(recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordID)).String()
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type matchValue struct {
	Value string `json:"value"`
}

type condition struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type filterBody struct {
	Must []condition `json:"must"`
}

func toFilter(f *driven.Filter) *filterBody {
	if f == nil {
		return nil
	}
	return &filterBody{Must: []condition{{Key: f.Field, Match: matchValue{Value: f.Value}}}}
}

// Upsert inserts or replaces records by ID.
func (i *Index) Upsert(ctx context.Context, records []domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := i.ensureCollection(ctx); err != nil {
		return err
	}

	points := make([]point, len(records))
	for n, r := range records {
		payload := make(map[string]any, len(r.Metadata)+1)
		for k, v := range r.Metadata {
			payload[k] = v
		}
		payload[payloadRecordID] = r.ID
		points[n] = point{ID: PointID(r.ID), Vector: r.Vector, Payload: payload}
	}

	body := map[string]any{"points": points}
	return i.do(ctx, http.MethodPut, i.collectionPath("/points?wait=true"), body, nil)
}

// Delete removes every record whose payload matches the filter.
func (i *Index) Delete(ctx context.Context, filter driven.Filter) error {
	if err := i.ensureCollection(ctx); err != nil {
		return err
	}
	body := map[string]any{"filter": toFilter(&filter)}
	return i.do(ctx, http.MethodPost, i.collectionPath("/points/delete?wait=true"), body, nil)
}

// Query returns up to topK records ordered by descending similarity.
func (i *Index) Query(ctx context.Context, vec []float32, topK int, filter *driven.Filter) ([]driven.VectorMatch, error) {
	if topK <= 0 {
		return nil, nil
	}
	if err := i.ensureCollection(ctx); err != nil {
		return nil, err
	}

	body := map[string]any{
		"vector":       vec,
		"limit":        topK,
		"with_payload": true,
	}
	if f := toFilter(filter); f != nil {
		body["filter"] = f
	}

	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := i.do(ctx, http.MethodPost, i.collectionPath("/points/search"), body, &resp); err != nil {
		return nil, err
	}

	matches := make([]driven.VectorMatch, 0, len(resp.Result))
	for _, r := range resp.Result {
		id, _ := r.Payload[payloadRecordID].(string)
		if id == "" {
			id = fmt.Sprint(r.ID)
		}
		matches = append(matches, vector.ToMatch(id, r.Score, r.Payload))
	}
	return matches, nil
}

// Count returns the number of records matching the filter.
func (i *Index) Count(ctx context.Context, filter *driven.Filter) (int, error) {
	if err := i.ensureCollection(ctx); err != nil {
		return 0, err
	}

	body := map[string]any{"exact": true}
	if f := toFilter(filter); f != nil {
		body["filter"] = f
	}
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := i.do(ctx, http.MethodPost, i.collectionPath("/points/count"), body, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Close releases resources.
func (i *Index) Close() error {
	i.client.CloseIdleConnections()
	return nil
}

// ensureCollection creates the collection with cosine distance if it is missing.
func (i *Index) ensureCollection(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ready {
		return nil
	}

	err := i.do(ctx, http.MethodGet, i.collectionPath(""), nil, nil)
	if isStatus(err, http.StatusNotFound) {
		body := map[string]any{
			"vectors": map[string]any{
				"size":     i.dimensions,
				"distance": "Cosine",
			},
		}
		err = i.do(ctx, http.MethodPut, i.collectionPath(""), body, nil)
	}
	if err != nil {
		return fmt.Errorf("qdrant: ensure collection %s: %w", i.collection, err)
	}
	i.ready = true
	return nil
}

func (i *Index) collectionPath(suffix string) string {
	return i.baseURL + "/collections/" + url.PathEscape(i.collection) + suffix
}

// statusError is a non-2xx reply from Qdrant.
type statusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed (status %d): %s", e.Method, e.URL, e.Status, e.Body)
}

func isStatus(err error, status int) bool {
	var se *statusError
	return errors.As(err, &se) && se.Status == status
}

func (i *Index) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qdrant: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("qdrant: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if i.apiKey != "" {
		req.Header.Set("api-key", i.apiKey)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{Method: method, URL: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("qdrant: decode response: %w", err)
		}
	}
	return nil
}
