package driven

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// Normaliser reduces fetched markup to clean prose.
// Implementations must be permissive: malformed or empty markup yields an
// empty Text, never an error.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise extracts the title and text of a raw document.
	// Returns domain.ErrInvalidInput only for a nil document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}
