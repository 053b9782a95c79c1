package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/bazarlivre/vitrine/internal/domain"
	"github.com/bazarlivre/vitrine/internal/platform/httpx"
	"github.com/bazarlivre/vitrine/internal/platform/observability"
	"github.com/bazarlivre/vitrine/internal/services"
	"github.com/bazarlivre/vitrine/internal/view"
)

// CatalogHandlers exposes the loaded catalog and its rendered presentation tree.
type CatalogHandlers struct {
	store      services.CatalogStore
	filters    services.FilterEngine
	renderer   *view.Renderer
	dispatcher services.ActionDispatcher
	metrics    *observability.Metrics
	clock      func() time.Time
}

// CatalogOption customises construction of CatalogHandlers.
type CatalogOption func(*CatalogHandlers)

// WithCatalogStore injects the catalog store dependency.
func WithCatalogStore(store services.CatalogStore) CatalogOption {
	return func(h *CatalogHandlers) {
		h.store = store
	}
}

// WithCatalogFilterEngine injects the filter engine dependency.
func WithCatalogFilterEngine(filters services.FilterEngine) CatalogOption {
	return func(h *CatalogHandlers) {
		h.filters = filters
	}
}

// WithCatalogRenderer injects the view renderer dependency.
func WithCatalogRenderer(renderer *view.Renderer) CatalogOption {
	return func(h *CatalogHandlers) {
		h.renderer = renderer
	}
}

// WithCatalogDispatcher injects the dispatcher that receives each render's carousel registry.
func WithCatalogDispatcher(dispatcher services.ActionDispatcher) CatalogOption {
	return func(h *CatalogHandlers) {
		h.dispatcher = dispatcher
	}
}

// WithCatalogMetrics injects the metrics recorder.
func WithCatalogMetrics(metrics *observability.Metrics) CatalogOption {
	return func(h *CatalogHandlers) {
		h.metrics = metrics
	}
}

// WithCatalogClock overrides the time source used for render latency.
func WithCatalogClock(clock func() time.Time) CatalogOption {
	return func(h *CatalogHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// NewCatalogHandlers constructs handlers for catalog endpoints.
func NewCatalogHandlers(opts ...CatalogOption) *CatalogHandlers {
	h := &CatalogHandlers{
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers catalog endpoints against the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCatalog)
	r.Get("/view", h.getView)
}

func (h *CatalogHandlers) getCatalog(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_unavailable", services.UnavailableMessage, http.StatusServiceUnavailable))
		return
	}

	snapshot, err := h.store.Snapshot()
	if err != nil {
		writeCatalogError(r.Context(), w, err)
		return
	}

	items := make([]itemPayload, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, newItemPayload(item))
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Items:         items,
		Categories:    snapshot.Categories,
		ContactNumber: snapshot.ContactNumber,
	})
}

func (h *CatalogHandlers) getView(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.filters == nil || h.renderer == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_unavailable", services.UnavailableMessage, http.StatusServiceUnavailable))
		return
	}

	snapshot, err := h.store.Snapshot()
	if err != nil {
		writeCatalogError(r.Context(), w, err)
		return
	}

	criteria := criteriaFromQuery(r)
	matched := h.filters.Apply(snapshot.Items, criteria)

	start := h.clock()
	tree, carousels := h.renderer.Render(matched)
	if h.dispatcher != nil {
		h.dispatcher.SetCarousels(carousels)
	}
	h.metrics.RecordRender(r.Context(), len(tree.Cards), float64(h.clock().Sub(start).Microseconds())/1000)

	writeJSON(w, http.StatusOK, viewResponse{
		Tree:    tree,
		Matched: len(matched),
		Total:   len(snapshot.Items),
	})
}

func criteriaFromQuery(r *http.Request) domain.FilterCriteria {
	query := r.URL.Query()
	return domain.FilterCriteria{
		Name:      query.Get("name"),
		Category:  query.Get("category"),
		Condition: query.Get("condition"),
		Price:     domain.PriceBracket(query.Get("price")),
	}
}

func writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", services.UnavailableMessage, http.StatusServiceUnavailable))
	case errors.Is(err, services.ErrItemNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("item_not_found", "item not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("catalog_error", err.Error(), http.StatusInternalServerError))
	}
}

type catalogResponse struct {
	Items         []itemPayload `json:"items"`
	Categories    []string      `json:"categories"`
	ContactNumber string        `json:"contact_number,omitempty"`
}

type viewResponse struct {
	Tree    *view.Tree `json:"tree"`
	Matched int        `json:"matched"`
	Total   int        `json:"total"`
}

type itemPayload struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Category         string   `json:"category,omitempty"`
	Condition        string   `json:"condition,omitempty"`
	Price            float64  `json:"price"`
	PromotionalPrice *float64 `json:"promotional_price,omitempty"`
	Photos           []string `json:"photos,omitempty"`
}

func newItemPayload(item domain.Item) itemPayload {
	return itemPayload{
		ID:               item.ID,
		Name:             item.Name,
		Description:      item.Description,
		Category:         item.Category,
		Condition:        item.Condition,
		Price:            item.Price,
		PromotionalPrice: item.PromotionalPrice,
		Photos:           item.Photos,
	}
}
