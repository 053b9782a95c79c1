package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bazarlivre/vitrine/internal/repositories"
)

type stubCatalogProvider struct {
	feed    repositories.CatalogFeed
	err     error
	fetches int
}

func (p *stubCatalogProvider) Fetch(context.Context) (repositories.CatalogFeed, error) {
	p.fetches++
	return p.feed, p.err
}

func promoPrice(v float64) *float64 { return &v }

func testFeed() repositories.CatalogFeed {
	return repositories.CatalogFeed{
		Items: []repositories.FeedItem{
			{ID: 1, Name: "Bicicleta", Category: "Esporte", Condition: "Usado", Price: 350, Photos: []string{"images/bike1.jpg", "images/bike2.jpg"}},
			{ID: 2, Name: "Ventilador", Category: "Eletrodomésticos", Condition: "Bom estado", Price: 60, PromotionalPrice: promoPrice(45)},
			{ID: 3, Name: "Mesa de jantar", Category: "Móveis", Condition: "Seminovo", Price: 120},
		},
		WhatsappNumber: "+55 (11) 99999-9999",
	}
}

func TestCatalogStoreLoadAndSnapshot(t *testing.T) {
	provider := &stubCatalogProvider{feed: testFeed()}
	store, err := NewCatalogStore(CatalogStoreDeps{Provider: provider})
	if err != nil {
		t.Fatalf("NewCatalogStore returned error: %v", err)
	}

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	snapshot, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if len(snapshot.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(snapshot.Items))
	}
	if snapshot.ContactNumber != "5511999999999" {
		t.Errorf("expected normalized contact number, got %q", snapshot.ContactNumber)
	}
	if len(snapshot.Categories) != 3 {
		t.Errorf("expected 3 derived categories, got %v", snapshot.Categories)
	}

	item, err := store.ItemByID(2)
	if err != nil {
		t.Fatalf("ItemByID returned error: %v", err)
	}
	if !item.HasPromotion() || item.EffectivePrice() != 45 {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestCatalogStoreSnapshotBeforeLoad(t *testing.T) {
	store, err := NewCatalogStore(CatalogStoreDeps{Provider: &stubCatalogProvider{feed: testFeed()}})
	if err != nil {
		t.Fatalf("NewCatalogStore returned error: %v", err)
	}

	if _, err := store.Snapshot(); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestCatalogStoreLoadFailureIsTerminal(t *testing.T) {
	fetchErr := &repositories.LoadError{Kind: repositories.LoadErrorFetch, Source: "feed", Err: errors.New("connection refused")}
	provider := &stubCatalogProvider{err: fetchErr}
	store, err := NewCatalogStore(CatalogStoreDeps{Provider: provider})
	if err != nil {
		t.Fatalf("NewCatalogStore returned error: %v", err)
	}

	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected load error, got nil")
	}

	// A second load must not retry.
	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected stored load error on second call, got nil")
	}
	if provider.fetches != 1 {
		t.Fatalf("expected exactly 1 fetch, got %d", provider.fetches)
	}

	if _, err := store.Snapshot(); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
	if _, err := store.ItemByID(1); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable from ItemByID, got %v", err)
	}
}

func TestCatalogStoreLoadIsIdempotentOnSuccess(t *testing.T) {
	provider := &stubCatalogProvider{feed: testFeed()}
	store, err := NewCatalogStore(CatalogStoreDeps{Provider: provider})
	if err != nil {
		t.Fatalf("NewCatalogStore returned error: %v", err)
	}

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("first Load returned error: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	if provider.fetches != 1 {
		t.Fatalf("expected exactly 1 fetch, got %d", provider.fetches)
	}
}

func TestCatalogStoreRejectsDuplicateIDs(t *testing.T) {
	feed := repositories.CatalogFeed{
		Items: []repositories.FeedItem{
			{ID: 1, Name: "A", Price: 10},
			{ID: 1, Name: "B", Price: 20},
		},
	}
	store, err := NewCatalogStore(CatalogStoreDeps{Provider: &stubCatalogProvider{feed: feed}})
	if err != nil {
		t.Fatalf("NewCatalogStore returned error: %v", err)
	}

	err = store.Load(context.Background())
	if err == nil {
		t.Fatal("expected load error, got nil")
	}
	loadErr, ok := repositories.AsLoadError(err)
	if !ok || !loadErr.IsDecode() {
		t.Fatalf("expected decode LoadError, got %v", err)
	}
}

func TestCatalogStoreItemByIDNotFound(t *testing.T) {
	store, err := NewCatalogStore(CatalogStoreDeps{Provider: &stubCatalogProvider{feed: testFeed()}})
	if err != nil {
		t.Fatalf("NewCatalogStore returned error: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if _, err := store.ItemByID(99); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestNewCatalogStoreRequiresProvider(t *testing.T) {
	if _, err := NewCatalogStore(CatalogStoreDeps{}); !errors.Is(err, ErrCatalogProviderMissing) {
		t.Fatalf("expected ErrCatalogProviderMissing, got %v", err)
	}
}
