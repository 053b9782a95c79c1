package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bazarlivre/vitrine/internal/platform/httpx"
	"github.com/bazarlivre/vitrine/internal/platform/observability"
	"github.com/bazarlivre/vitrine/internal/platform/pagination"
	"github.com/bazarlivre/vitrine/internal/services"
	"github.com/bazarlivre/vitrine/internal/view"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// InteractionHandlers accepts interaction events and exposes the recent log.
type InteractionHandlers struct {
	dispatcher services.ActionDispatcher
	log        services.InteractionLog
	metrics    *observability.Metrics
	limiter    rateLimiter
}

// InteractionOption customises construction of InteractionHandlers.
type InteractionOption func(*InteractionHandlers)

// WithInteractionDispatcher injects the dispatcher dependency.
func WithInteractionDispatcher(dispatcher services.ActionDispatcher) InteractionOption {
	return func(h *InteractionHandlers) {
		h.dispatcher = dispatcher
	}
}

// WithInteractionLog injects the interaction log read side.
func WithInteractionLog(log services.InteractionLog) InteractionOption {
	return func(h *InteractionHandlers) {
		h.log = log
	}
}

// WithInteractionMetrics injects the metrics recorder.
func WithInteractionMetrics(metrics *observability.Metrics) InteractionOption {
	return func(h *InteractionHandlers) {
		h.metrics = metrics
	}
}

// WithInteractionRateLimit caps the number of dispatches accepted per client
// within the supplied window. Non-positive values disable the limiter.
func WithInteractionRateLimit(limit int, window time.Duration) InteractionOption {
	return func(h *InteractionHandlers) {
		h.limiter = newSimpleRateLimiter(limit, window, nil)
	}
}

// NewInteractionHandlers constructs handlers for interaction endpoints.
func NewInteractionHandlers(opts ...InteractionOption) *InteractionHandlers {
	h := &InteractionHandlers{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers interaction endpoints against the provided router.
func (h *InteractionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.dispatch)
	if h.log != nil {
		r.Get("/recent", h.recent)
	}
}

type interactionRequest struct {
	Type      string `json:"type"`
	ItemID    int    `json:"item_id"`
	CardID    string `json:"card_id"`
	Direction int    `json:"direction"`
	Index     int    `json:"index"`
}

func (h *InteractionHandlers) dispatch(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("dispatcher_unavailable", "interaction dispatcher is unavailable", http.StatusServiceUnavailable))
		return
	}

	if h.limiter != nil && !h.limiter.Allow(clientKey(r)) {
		httpx.WriteError(r.Context(), w, httpx.NewError("rate_limited", "too many interactions; slow down", http.StatusTooManyRequests))
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	event, err := eventFromRequest(req)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_event", err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), event)
	if err != nil {
		writeDispatchError(r.Context(), w, err)
		return
	}

	h.metrics.RecordDispatch(r.Context(), result.Kind)
	writeJSON(w, http.StatusOK, result)
}

func (h *InteractionHandlers) recent(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromRequest(r, pagination.Options{
		DefaultLimit: defaultRecentLimit,
		MaxLimit:     maxRecentLimit,
	})
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_limit", "limit must be a positive integer", http.StatusBadRequest))
		return
	}

	records := h.log.Recent(params.Limit)
	payload := make([]interactionPayload, 0, len(records))
	for _, record := range records {
		payload = append(payload, newInteractionPayload(record))
	}

	writeJSON(w, http.StatusOK, recentResponse{Interactions: payload})
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func eventFromRequest(req interactionRequest) (services.InteractionEvent, error) {
	switch req.Type {
	case services.KindContact:
		return services.ContactEvent{ItemID: req.ItemID}, nil
	case services.KindCopy:
		return services.CopyEvent{ItemID: req.ItemID}, nil
	case services.KindCarouselAdvance:
		return services.CarouselAdvanceEvent{CardID: req.CardID, Direction: req.Direction}, nil
	case services.KindCarouselSelect:
		return services.CarouselSelectEvent{CardID: req.CardID, Index: req.Index}, nil
	default:
		return nil, errors.New("unrecognised event type")
	}
}

func writeDispatchError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", services.UnavailableMessage, http.StatusServiceUnavailable))
	case errors.Is(err, services.ErrItemNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("item_not_found", "item not found", http.StatusNotFound))
	case errors.Is(err, view.ErrUnknownCard):
		httpx.WriteError(ctx, w, httpx.NewError("unknown_card", "card has no carousel", http.StatusNotFound))
	case errors.Is(err, view.ErrIndexOutOfRange):
		httpx.WriteError(ctx, w, httpx.NewError("index_out_of_range", "slide index out of range", http.StatusBadRequest))
	case errors.Is(err, view.ErrInvalidDirection):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_direction", "direction must be -1 or 1", http.StatusBadRequest))
	case errors.Is(err, services.ErrNoCarousels):
		httpx.WriteError(ctx, w, httpx.NewError("no_carousels", "no view has been rendered yet", http.StatusConflict))
	case errors.Is(err, services.ErrUnknownEvent):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_event", "unrecognised event type", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("dispatch_error", err.Error(), http.StatusInternalServerError))
	}
}

type recentResponse struct {
	Interactions []interactionPayload `json:"interactions"`
}

type interactionPayload struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	ItemID     int    `json:"item_id,omitempty"`
	CardID     string `json:"card_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

func newInteractionPayload(record services.InteractionRecord) interactionPayload {
	return interactionPayload{
		ID:         record.ID,
		Kind:       record.Kind,
		ItemID:     record.ItemID,
		CardID:     record.CardID,
		OccurredAt: record.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}
