// Package pinecone provides a vector index backed by a Pinecone serverless
// index over REST.
//
// When no data-plane host is configured, the host is resolved through the
// control plane and the index is created (cosine, serverless on AWS in the
// configured region) if it does not exist yet.
package pinecone

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

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/vector"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultControlURL   = "https://api.pinecone.io"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 2 * time.Second
	DefaultReadyTimeout = 2 * time.Minute
	APIVersion          = "2024-07"
)

// Config holds configuration for the Pinecone index.
type Config struct {
	// APIKey authenticates every request (required).
	APIKey string

	// Host is the index data-plane host. Resolved from IndexName when empty.
	Host string

	// IndexName is the index to use or create (default: html-chunks).
	IndexName string

	// Region is the AWS region for index creation (default: us-east-1).
	Region string

	// Dimensions is the vector size used when creating the index.
	Dimensions int

	// ControlURL is the control-plane endpoint (default: https://api.pinecone.io).
	ControlURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// PollInterval is the wait between readiness checks after creation.
	PollInterval time.Duration

	// ReadyTimeout bounds the wait for a new index to become ready.
	ReadyTimeout time.Duration
}

// Index is a Pinecone index.
type Index struct {
	client       *http.Client
	apiKey       string
	name         string
	region       string
	dimensions   int
	controlURL   string
	pollInterval time.Duration
	readyTimeout time.Duration

	mu   sync.Mutex
	host string
}

// New creates a Pinecone index client.
func New(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, &domain.ConfigurationError{
			Setting: "vector_index.api_key",
			Kind:    domain.ConfigMissingCredentials,
		}
	}
	if cfg.IndexName == "" {
		cfg.IndexName = domain.DefaultCollection
	}
	if cfg.Region == "" {
		cfg.Region = domain.DefaultEnvironment
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.DefaultDimensions
	}
	if cfg.ControlURL == "" {
		cfg.ControlURL = DefaultControlURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}

	return &Index{
		client:       &http.Client{Timeout: cfg.Timeout},
		apiKey:       cfg.APIKey,
		name:         cfg.IndexName,
		region:       cfg.Region,
		dimensions:   cfg.Dimensions,
		controlURL:   strings.TrimRight(cfg.ControlURL, "/"),
		pollInterval: cfg.PollInterval,
		readyTimeout: cfg.ReadyTimeout,
		host:         normaliseHost(cfg.Host),
	}, nil
}

func normaliseHost(host string) string {
	host = strings.TrimRight(host, "/")
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}

type pcVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func toFilter(f *driven.Filter) map[string]any {
	if f == nil {
		return nil
	}
	return map[string]any{f.Field: map[string]any{"$eq": f.Value}}
}

// Upsert inserts or replaces records by ID.
func (i *Index) Upsert(ctx context.Context, records []domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}
	host, err := i.resolveHost(ctx)
	if err != nil {
		return err
	}

	vectors := make([]pcVector, len(records))
	for n, r := range records {
		vectors[n] = pcVector{ID: r.ID, Values: r.Vector, Metadata: r.Metadata}
	}
	return i.do(ctx, http.MethodPost, host+"/vectors/upsert", map[string]any{"vectors": vectors}, nil)
}

// Delete removes every record whose metadata matches the filter.
func (i *Index) Delete(ctx context.Context, filter driven.Filter) error {
	host, err := i.resolveHost(ctx)
	if err != nil {
		return err
	}
	return i.do(ctx, http.MethodPost, host+"/vectors/delete", map[string]any{"filter": toFilter(&filter)}, nil)
}

// Query returns up to topK records ordered by descending similarity.
func (i *Index) Query(ctx context.Context, vec []float32, topK int, filter *driven.Filter) ([]driven.VectorMatch, error) {
	if topK <= 0 {
		return nil, nil
	}
	host, err := i.resolveHost(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"vector":          vec,
		"topK":            topK,
		"includeMetadata": true,
	}
	if f := toFilter(filter); f != nil {
		body["filter"] = f
	}

	var resp struct {
		Matches []struct {
			ID       string         `json:"id"`
			Score    float64        `json:"score"`
			Metadata map[string]any `json:"metadata"`
		} `json:"matches"`
	}
	if err := i.do(ctx, http.MethodPost, host+"/query", body, &resp); err != nil {
		return nil, err
	}

	matches := make([]driven.VectorMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, vector.ToMatch(m.ID, m.Score, m.Metadata))
	}
	return matches, nil
}

// Count returns the number of records matching the filter.
func (i *Index) Count(ctx context.Context, filter *driven.Filter) (int, error) {
	host, err := i.resolveHost(ctx)
	if err != nil {
		return 0, err
	}

	body := map[string]any{}
	if f := toFilter(filter); f != nil {
		body["filter"] = f
	}
	var resp struct {
		TotalVectorCount int `json:"totalVectorCount"`
	}
	if err := i.do(ctx, http.MethodPost, host+"/describe_index_stats", body, &resp); err != nil {
		return 0, err
	}
	return resp.TotalVectorCount, nil
}

// Close releases resources.
func (i *Index) Close() error {
	i.client.CloseIdleConnections()
	return nil
}

type indexDescription struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	Status struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// resolveHost returns the data-plane host, creating the index if needed.
func (i *Index) resolveHost(ctx context.Context) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.host != "" {
		return i.host, nil
	}

	desc, err := i.describe(ctx)
	if isStatus(err, http.StatusNotFound) {
		logger.Info("Pinecone index %s not found, creating", i.name)
		desc, err = i.create(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("pinecone: resolve index %s: %w", i.name, err)
	}
	if desc.Host == "" {
		return "", fmt.Errorf("pinecone: index %s has no host", i.name)
	}

	i.host = normaliseHost(desc.Host)
	return i.host, nil
}

func (i *Index) describe(ctx context.Context) (*indexDescription, error) {
	var desc indexDescription
	if err := i.do(ctx, http.MethodGet, i.controlURL+"/indexes/"+url.PathEscape(i.name), nil, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

func (i *Index) create(ctx context.Context) (*indexDescription, error) {
	body := map[string]any{
		"name":      i.name,
		"dimension": i.dimensions,
		"metric":    "cosine",
		"spec": map[string]any{
			"serverless": map[string]any{"cloud": "aws", "region": i.region},
		},
	}
	var desc indexDescription
	err := i.do(ctx, http.MethodPost, i.controlURL+"/indexes", body, &desc)
	if err != nil && !isStatus(err, http.StatusConflict) {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, i.readyTimeout)
	defer cancel()
	ticker := time.NewTicker(i.pollInterval)
	defer ticker.Stop()

	for {
		d, err := i.describe(ctx)
		if err != nil {
			return nil, err
		}
		if d.Status.Ready {
			logger.Info("Pinecone index %s ready", i.name)
			return d, nil
		}
		logger.Debug("Waiting for Pinecone index %s (state %s)", i.name, d.Status.State)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for index ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// statusError is a non-2xx reply from Pinecone.
type statusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("pinecone %s %s failed (status %d): %s", e.Method, e.URL, e.Status, e.Body)
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
			return fmt.Errorf("pinecone: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("pinecone: create request: %w", err)
	}
	req.Header.Set("Api-Key", i.apiKey)
	req.Header.Set("X-Pinecone-API-Version", APIVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{Method: method, URL: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("pinecone: decode response: %w", err)
		}
	}
	return nil
}
