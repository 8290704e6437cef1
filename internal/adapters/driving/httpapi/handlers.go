package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// FetchRequest is the body of POST /api/fetch/.
type FetchRequest struct {
	URL string `json:"url"`
}

// SearchRequest is the body of POST /api/search/.
type SearchRequest struct {
	Query string `json:"query"`
	URL   string `json:"url,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse is the body returned by POST /api/search/.
type SearchResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// HealthResponse is the body returned by GET /api/health/.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: HealthStatus, Service: HealthService})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	result, err := s.ingest.Ingest(r.Context(), req.URL)
	if err != nil {
		status := StatusFor(err)
		logger.Warn("Fetch %s failed (%d): %v", req.URL, status, err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	results, err := s.search.Search(r.Context(), req.Query, domain.SearchOptions{URL: req.URL, TopK: req.Limit})
	if err != nil {
		status := StatusFor(err)
		logger.Warn("Search %q failed (%d): %v", req.Query, status, err)
		writeError(w, status, err.Error())
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: req.Query, Results: results, Count: len(results)})
}

// StatusFor maps a pipeline error onto an HTTP status code.
func StatusFor(err error) int {
	var (
		fetchErr *domain.FetchError
		cfgErr   *domain.ConfigurationError
	)
	switch {
	case errors.As(err, &fetchErr):
		switch fetchErr.Kind {
		case domain.FetchTimeout:
			return http.StatusGatewayTimeout
		case domain.FetchHTTPStatus:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	case errors.Is(err, domain.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.As(err, &cfgErr),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
