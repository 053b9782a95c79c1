package services

import (
	"context"
	"time"

	domain "github.com/bazarlivre/vitrine/internal/domain"
	"github.com/bazarlivre/vitrine/internal/view"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Item            = domain.Item
	CatalogSnapshot = domain.CatalogSnapshot
	FilterCriteria  = domain.FilterCriteria
	PriceBracket    = domain.PriceBracket
)

// CatalogStore exposes read-only access to the catalog loaded for the session.
type CatalogStore interface {
	// Load fetches the catalog feed exactly once. A failure is terminal for
	// the session: subsequent calls return the original error and the store
	// never retries.
	Load(ctx context.Context) error
	// Snapshot returns the immutable loaded catalog, or ErrCatalogUnavailable
	// when the load failed or has not happened yet.
	Snapshot() (domain.CatalogSnapshot, error)
	// ItemByID looks an item up by id against the full loaded set.
	ItemByID(id int) (domain.Item, error)
}

// FilterEngine narrows an ordered item list by the supplied criteria.
type FilterEngine interface {
	Apply(items []domain.Item, criteria domain.FilterCriteria) []domain.Item
}

// Clipboard abstracts the system clipboard used by the copy action.
type Clipboard interface {
	Write(ctx context.Context, text string) error
}

// InteractionRecord stores one dispatched interaction for the operator log.
type InteractionRecord struct {
	ID         string
	Kind       string
	ItemID     int
	CardID     string
	OccurredAt time.Time
}

// InteractionLog records dispatched interactions in arrival order.
type InteractionLog interface {
	Record(rec InteractionRecord)
	Recent(limit int) []InteractionRecord
}

// ActionDispatcher routes interaction events to their effect and reports the
// outcome the presentation layer should apply.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, event InteractionEvent) (ActionResult, error)
	// SetCarousels replaces the carousel registry after a re-render. Any
	// per-card progress tracked by the previous registry is discarded.
	SetCarousels(registry *view.Registry)
	// CopyLabel reports the current label of an item's copy control.
	CopyLabel(itemID int) string
}
