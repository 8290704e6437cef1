package normalisers

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.Normaliser = (*Registry)(nil)

// Registry maps MIME types to the normaliser that handles them.
// Later registrations win for a shared MIME type.
type Registry struct {
	byMIME   map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates a registry that uses fallback for unknown MIME types.
// The fallback's own MIME types are registered too.
func NewRegistry(fallback driven.Normaliser) *Registry {
	r := &Registry{
		byMIME:   make(map[string]driven.Normaliser),
		fallback: fallback,
	}
	if fallback != nil {
		r.Register(fallback)
	}
	return r
}

// Register adds a normaliser for each of its MIME types.
func (r *Registry) Register(n driven.Normaliser) {
	for _, mime := range n.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(mime)] = n
	}
}

// SupportedMIMETypes returns every registered MIME type, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	types := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}

// Has returns true if a normaliser is registered for mime.
func (r *Registry) Has(mime string) bool {
	_, ok := r.byMIME[strings.ToLower(mime)]
	return ok
}

// Normalise hands raw to the normaliser registered for its MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n, ok := r.byMIME[strings.ToLower(raw.MIMEType)]
	if !ok {
		if r.fallback == nil {
			return nil, domain.ErrUnsupportedType
		}
		logger.Debug("No normaliser for %q, using fallback", raw.MIMEType)
		n = r.fallback
	}
	return n.Normalise(ctx, raw)
}
