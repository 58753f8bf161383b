// Package fetch implements the Fetcher interface.
// It downloads a saved or server-rendered timeline page over HTTP. Pages that
// only render their timeline in a browser need the crawl package instead.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/brokercsv/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "brokercsv/1.0 (+https://github.com/gaurav-prasanna/brokercsv)"
	// maxBodyBytes caps the page size; timelines are large but not unbounded.
	maxBodyBytes = 32 << 20
)

// HTTPFetcher fetches timeline pages via HTTP.
type HTTPFetcher struct {
	client *http.Client
	cookie string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithCookie sends the given Cookie header, e.g. a copied session cookie.
func WithCookie(cookie string) Option {
	return func(f *HTTPFetcher) { f.cookie = cookie }
}

// WithClient replaces the HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = client }
}

// New creates an HTTPFetcher with a sensible timeout.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the HTML content of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}

var _ core.Fetcher = (*HTTPFetcher)(nil)
