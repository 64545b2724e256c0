package domain

import (
	"context"
	"io"
	"time"
)

// SearchParams are the query parameters forwarded on the passthrough search
// path. Both fields are optional.
type SearchParams struct {
	FreeText  string
	ProductID string
}

// CatalogClient defines the interface for the catalog feed fetcher.
// Implementations must return ErrFeedUnavailable (wrapped, with diagnostic
// detail) for transport-level failures so callers can distinguish them from
// an empty result set.
type CatalogClient interface {
	// Search runs a free-text / product-id search.
	Search(ctx context.Context, params SearchParams) ([]Product, error)

	// SearchByCode searches by reference-code path segment.
	SearchByCode(ctx context.Context, code string) ([]Product, error)
}

// ImageRelay defines the interface for fetching image bytes on behalf of a
// caller. The returned reader must be closed by the caller.
type ImageRelay interface {
	Fetch(ctx context.Context, rawURL string) (body io.ReadCloser, contentType string, err error)
}

// CacheRepository defines the interface for caching raw feed payloads.
// Caching lives in the transport layer only; the matching core is stateless.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
