// Package plaintext normalises text/plain responses.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/csv"}
}

// Normalise collapses whitespace and titles the document from its URL.
// Chunking is handled by the Chunker.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &domain.Document{
		URL:   raw.URL,
		Title: normalisers.TitleFromURL(raw.URL),
		Text:  strings.Join(strings.Fields(string(raw.Content)), " "),
	}, nil
}
