// Package fetch provides the HTTP page fetcher.
//
// Every failure is reported as a *domain.FetchError classified as a timeout,
// a transport failure or an unexpected HTTP status.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultMaxBodyBytes = 10 << 20
	DefaultMIMEType     = "text/html"
)

// Config holds configuration for the fetcher.
type Config struct {
	// Timeout bounds a single fetch (default: 15s).
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// RatePerSecond throttles requests. Zero disables throttling.
	RatePerSecond float64

	// MaxBodyBytes caps the response body (default: 10 MiB).
	MaxBodyBytes int64
}

// Fetcher retrieves page markup over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	limiter   *RateLimiter
}

// New creates a fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = domain.DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		limiter:   NewRateLimiter(cfg.RatePerSecond),
	}
}

// Fetch retrieves the markup at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, classify(url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Kind: domain.FetchNetwork, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8,*/*;q=0.5")

	logger.Debug("Fetching %s", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests {
			f.limiter.RecordRateLimit(resp.Header.Get("Retry-After"))
			logger.Warn("Rate limited by %s, backing off %s", req.URL.Host, f.limiter.Backoff().Round(time.Second))
		}
		return nil, &domain.FetchError{
			URL:        url,
			Kind:       domain.FetchHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, classify(url, err)
	}
	if int64(len(body)) > f.maxBody {
		body = body[:f.maxBody]
		logger.Warn("Page %s exceeds %d bytes, indexing the first %d only", url, f.maxBody, f.maxBody)
	}
	logger.Debug("Fetched %s (%d bytes)", url, len(body))

	return &domain.RawDocument{
		URL:      url,
		MIMEType: mimeType(resp.Header.Get("Content-Type")),
		Content:  body,
	}, nil
}

// classify maps a transport error onto a FetchError kind.
func classify(url string, err error) *domain.FetchError {
	kind := domain.FetchNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = domain.FetchTimeout
	}
	return &domain.FetchError{URL: url, Kind: kind, Err: err}
}

func mimeType(contentType string) string {
	if contentType == "" {
		return DefaultMIMEType
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return DefaultMIMEType
	}
	return mt
}
