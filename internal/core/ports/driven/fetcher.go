package driven

import (
	"context"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// Fetcher retrieves page markup over the network.
// Timeouts, transport failures and non-2xx responses are returned as
// *domain.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}
