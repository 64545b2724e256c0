package vtex

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mdcatalog/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 20 * time.Second
	defaultRPS     = 5.0
	defaultBurst   = 10
	maxAttempts    = 3
)

// ClientOptions configures the catalog feed client. TLS verification is an
// explicit option here because some corporate networks intercept HTTPS;
// InsecureSkipVerify must never come from ambient global state.
type ClientOptions struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
	RequestsPerSecond  float64
	Burst              int

	// Cache, when set together with a positive CacheTTL, stores raw search
	// payloads keyed by request URL. Off by default.
	Cache    domain.CacheRepository
	CacheTTL time.Duration
}

// Client fetches raw product batches from the VTEX catalog search API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	debug       bool
}

// NewClient creates a new VTEX catalog client. baseURL is the full search
// endpoint, e.g. "https://example.vtex.com/api/catalog_system/pub/products/search/".
func NewClient(baseURL string, opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Search runs a free-text / product-id search against the feed.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) ([]domain.Product, error) {
	q := url.Values{}
	if params.FreeText != "" {
		q.Set("ft", params.FreeText)
	}
	if params.ProductID != "" {
		q.Set("productId", params.ProductID)
	}

	reqURL := c.baseURL
	if encoded := q.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	return c.fetchProducts(ctx, reqURL)
}

// SearchByCode searches by reference-code path segment, the way the
// storefront addresses product families ("…/search/MD2116").
func (c *Client) SearchByCode(ctx context.Context, code string) ([]domain.Product, error) {
	return c.fetchProducts(ctx, c.baseURL+url.PathEscape(code))
}

// fetchProducts retrieves and decodes one search payload, consulting the
// optional response cache first.
func (c *Client) fetchProducts(ctx context.Context, reqURL string) ([]domain.Product, error) {
	if c.cache != nil && c.cacheTTL > 0 {
		if payload, err := c.cache.Get(ctx, reqURL); err == nil {
			if c.debug {
				log.Printf("[VTEX] cache hit for %s", reqURL)
			}
			return decodeProducts(payload)
		}
	}

	payload, err := c.fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	products, err := decodeProducts(payload)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, reqURL, payload, c.cacheTTL); err != nil && c.debug {
			log.Printf("[VTEX] cache set failed: %v", err)
		}
	}

	return products, nil
}

// fetch performs the HTTP request with rate limiting and up to three
// attempts for transient failures.
func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "mdcatalog-backend/0.1")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				log.Printf("[VTEX] request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
			sleepBackoff(ctx, attempt)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, readErr)
			sleepBackoff(ctx, attempt)
			continue
		}

		// VTEX answers range queries with 206, so accept any 2xx. Every
		// non-success status (404 included) is a collaborator failure; an
		// empty result set comes back as 200 with an empty array.
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			if c.debug {
				log.Printf("[VTEX] status %d (attempt %d): %s", resp.StatusCode, attempt, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFeedUnavailable, resp.StatusCode)
			sleepBackoff(ctx, attempt)
			continue
		}

		if c.debug {
			log.Printf("[VTEX] GET %s -> %d (%d bytes)", reqURL, resp.StatusCode, len(body))
		}
		return body, nil
	}

	return nil, lastErr
}

// decodeProducts parses a search payload. The feed normally returns a JSON
// array; a bare object is tolerated and treated as a single-record batch.
// Each element keeps its raw JSON for the passthrough path.
func decodeProducts(payload []byte) ([]domain.Product, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		var p domain.Product
		if objErr := json.Unmarshal(payload, &p); objErr != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrFeedUnavailable, err)
		}
		p.Raw = append(json.RawMessage(nil), payload...)
		return []domain.Product{p}, nil
	}

	products := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			// Malformed record: skip rather than fail the whole batch.
			continue
		}
		p.Raw = raw
		products = append(products, p)
	}

	return products, nil
}

// sleepBackoff waits before the next retry, honoring cancellation.
func sleepBackoff(ctx context.Context, attempt int) {
	select {
	case <-time.After(exponentialBackoff(attempt)):
	case <-ctx.Done():
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
