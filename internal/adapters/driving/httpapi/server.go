package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("httpapi: search service is required")

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("httpapi: ingest service is required")

// Health payload.
const (
	HealthStatus  = "healthy"
	HealthService = "HTML Chunk Search API"
)

// maxRequestBytes bounds request bodies.
const maxRequestBytes = 1 << 20

// Server is the JSON HTTP API.
type Server struct {
	search driving.SearchService
	ingest driving.IngestService
	mux    *http.ServeMux
}

// NewServer creates a server backed by the given services.
func NewServer(search driving.SearchService, ingest driving.IngestService) (*Server, error) {
	if search == nil {
		return nil, ErrMissingSearchService
	}
	if ingest == nil {
		return nil, ErrMissingIngestService
	}

	s := &Server{
		search: search,
		ingest: ingest,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /api/health/", s.handleHealth)
	s.mux.HandleFunc("POST /api/fetch/", s.handleFetch)
	s.mux.HandleFunc("POST /api/search/", s.handleSearch)
	return s, nil
}

// Mount registers an extra handler under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
}

// Run listens on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck,contextcheck
	}()

	logger.Info("Listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so streaming handlers keep working.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
