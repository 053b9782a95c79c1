package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultFetchTimeout = 10 * time.Second

// HTTPCatalogProvider fetches the catalog feed as JSON from a remote URL.
type HTTPCatalogProvider struct {
	url    string
	client *http.Client
}

// NewHTTPCatalogProvider constructs a provider for the given feed URL. A nil
// client falls back to a default with a bounded timeout.
func NewHTTPCatalogProvider(url string, client *http.Client) (*HTTPCatalogProvider, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("catalog provider: feed url is required")
	}
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPCatalogProvider{url: url, client: client}, nil
}

// Fetch implements CatalogProvider.
func (p *HTTPCatalogProvider) Fetch(ctx context.Context) (CatalogFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return CatalogFeed{}, &LoadError{Kind: LoadErrorFetch, Source: p.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return CatalogFeed{}, &LoadError{Kind: LoadErrorFetch, Source: p.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CatalogFeed{}, &LoadError{
			Kind:   LoadErrorFetch,
			Source: p.url,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var feed CatalogFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return CatalogFeed{}, &LoadError{Kind: LoadErrorDecode, Source: p.url, Err: err}
	}
	return feed, nil
}
