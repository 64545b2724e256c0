package vtex

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mdcatalog/backend/internal/domain"
)

const fallbackContentType = "image/jpeg"

// RelayOptions configures the image relay.
type RelayOptions struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Relay fetches image bytes from the catalog CDN on behalf of a caller that
// cannot reach it directly. It streams the body; the caller must close it.
type Relay struct {
	httpClient *http.Client
}

// NewRelay creates a new image relay
func NewRelay(opts RelayOptions) *Relay {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Relay{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify},
			},
		},
	}
}

// Fetch retrieves the image at rawURL and returns its body and content type.
// Transport failures and non-success statuses come back as a wrapped
// ErrRelayUnavailable carrying the diagnostic detail.
func (r *Relay) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("%w: not an absolute http(s) url: %q", domain.ErrInvalidRequest, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrRelayUnavailable, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrRelayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("%w: status %d", domain.ErrRelayUnavailable, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = fallbackContentType
	}

	return resp.Body, contentType, nil
}
