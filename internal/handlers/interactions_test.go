package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bazarlivre/vitrine/internal/services"
)

func newInteractionTestRouter(t *testing.T, store services.CatalogStore, log services.InteractionLog) http.Handler {
	t.Helper()

	dispatcher, err := services.NewDispatcher(services.DispatcherDeps{
		Store:     store,
		Clipboard: services.NewNoopClipboard(),
		Log:       log,
	})
	if err != nil {
		t.Fatalf("NewDispatcher returned error: %v", err)
	}

	handlers := NewInteractionHandlers(
		WithInteractionDispatcher(dispatcher),
		WithInteractionLog(log),
	)
	return NewRouter(WithInteractionRoutes(handlers.Routes))
}

func postInteraction(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPostInteractionContact(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	router := newInteractionTestRouter(t, store, nil)

	rec := postInteraction(t, router, `{"type":"contact","item_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var result services.ActionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Kind != services.KindContact {
		t.Errorf("kind = %q", result.Kind)
	}
	if !strings.HasPrefix(result.ContactURL, "https://wa.me/5511999999999?text=") {
		t.Errorf("unexpected contact url %q", result.ContactURL)
	}
}

func TestPostInteractionCopy(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	router := newInteractionTestRouter(t, store, nil)

	rec := postInteraction(t, router, `{"type":"copy","item_id":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var result services.ActionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(result.CopyText, "Item: Mesa de jantar") {
		t.Errorf("unexpected copy text %q", result.CopyText)
	}
	if !result.Confirmed {
		t.Error("expected confirmed copy")
	}
	if result.CopyLabel != services.CopyConfirmationLabel {
		t.Errorf("copy label = %q", result.CopyLabel)
	}
}

func TestPostInteractionUnknownItem(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	router := newInteractionTestRouter(t, store, nil)

	rec := postInteraction(t, router, `{"type":"contact","item_id":99}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPostInteractionInvalidType(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	router := newInteractionTestRouter(t, store, nil)

	rec := postInteraction(t, router, `{"type":"poke","item_id":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPostInteractionMalformedBody(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	router := newInteractionTestRouter(t, store, nil)

	rec := postInteraction(t, router, `{broken`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPostInteractionCarouselBeforeRender(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	router := newInteractionTestRouter(t, store, nil)

	rec := postInteraction(t, router, `{"type":"carousel_advance","card_id":"card-1","direction":1}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestGetRecentInteractions(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	log := services.NewInteractionLog(services.InteractionLogDeps{})
	router := newInteractionTestRouter(t, store, log)

	if rec := postInteraction(t, router, `{"type":"contact","item_id":1}`); rec.Code != http.StatusOK {
		t.Fatalf("seed dispatch failed with %d", rec.Code)
	}
	if rec := postInteraction(t, router, `{"type":"copy","item_id":2}`); rec.Code != http.StatusOK {
		t.Fatalf("seed dispatch failed with %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions/recent?limit=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Interactions []map[string]any `json:"interactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Interactions) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(resp.Interactions))
	}
	if resp.Interactions[0]["kind"] != services.KindCopy {
		t.Errorf("expected newest first, got %v", resp.Interactions[0]["kind"])
	}
}

func TestGetRecentInteractionsInvalidLimit(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	log := services.NewInteractionLog(services.InteractionLogDeps{})
	router := newInteractionTestRouter(t, store, log)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions/recent?limit=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPostInteractionRateLimited(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	dispatcher, err := services.NewDispatcher(services.DispatcherDeps{
		Store:     store,
		Clipboard: services.NewNoopClipboard(),
	})
	if err != nil {
		t.Fatalf("NewDispatcher returned error: %v", err)
	}

	handlers := NewInteractionHandlers(
		WithInteractionDispatcher(dispatcher),
		WithInteractionRateLimit(1, time.Minute),
	)
	router := NewRouter(WithInteractionRoutes(handlers.Routes))

	rec := postInteraction(t, router, `{"type":"contact","item_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}

	rec = postInteraction(t, router, `{"type":"contact","item_id":1}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload["error"] != "rate_limited" {
		t.Errorf("error code = %v", payload["error"])
	}
}

func TestRecentRouteAbsentWithoutLog(t *testing.T) {
	store := &stubCatalogStore{snapshot: catalogSnapshotFixture()}
	router := newInteractionTestRouter(t, store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions/recent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when interaction log disabled", rec.Code)
	}
}
