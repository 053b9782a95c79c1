package repositories

import (
	"context"
	"errors"
	"fmt"
)

// FeedItem mirrors a single item record in the catalog feed payload.
type FeedItem struct {
	ID               int      `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	Category         string   `json:"category" yaml:"category"`
	Condition        string   `json:"condition" yaml:"condition"`
	Price            float64  `json:"price" yaml:"price"`
	PromotionalPrice *float64 `json:"promotionalPrice,omitempty" yaml:"promotionalPrice,omitempty"`
	Photos           []string `json:"photos" yaml:"photos"`
}

// CatalogFeed is the payload consumed from the external data provider.
type CatalogFeed struct {
	Items          []FeedItem `json:"items" yaml:"items"`
	Categories     []string   `json:"categories" yaml:"categories"`
	WhatsappNumber string     `json:"whatsappNumber" yaml:"whatsappNumber"`
}

// CatalogProvider fetches the raw catalog feed. Implementations report any
// failure, network or parse alike, as a LoadError.
type CatalogProvider interface {
	Fetch(ctx context.Context) (CatalogFeed, error)
}

// LoadErrorKind categorises catalog load failures.
type LoadErrorKind string

const (
	// LoadErrorFetch indicates the feed source could not be read.
	LoadErrorFetch LoadErrorKind = "fetch"
	// LoadErrorDecode indicates the feed payload could not be parsed.
	LoadErrorDecode LoadErrorKind = "decode"
)

// LoadError wraps catalog feed failures with categorisation used by the store.
type LoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog provider: %s failed for %s: %v", e.Kind, e.Source, e.Err)
}

// Unwrap exposes the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// IsFetch reports whether the source could not be read.
func (e *LoadError) IsFetch() bool { return e.Kind == LoadErrorFetch }

// IsDecode reports whether the payload could not be parsed.
func (e *LoadError) IsDecode() bool { return e.Kind == LoadErrorDecode }

// AsLoadError unwraps err into a LoadError when possible.
func AsLoadError(err error) (*LoadError, bool) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr, true
	}
	return nil, false
}
