package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileCatalogProviderJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	payload := `{
		"items": [
			{"id": 1, "name": "Bicicleta", "category": "Esporte", "condition": "Usado", "price": 350.0, "photos": ["images/bike1.jpg", "images/bike2.jpg"]},
			{"id": 2, "name": "Ventilador", "category": "Eletrodomésticos", "condition": "Bom estado", "price": 60.0, "promotionalPrice": 45.0}
		],
		"categories": ["Esporte", "Eletrodomésticos"],
		"whatsappNumber": "5511999999999"
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("failed to write feed: %v", err)
	}

	provider, err := NewFileCatalogProvider(path)
	if err != nil {
		t.Fatalf("NewFileCatalogProvider returned error: %v", err)
	}

	feed, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
	if feed.Items[0].Name != "Bicicleta" {
		t.Errorf("unexpected first item name %q", feed.Items[0].Name)
	}
	if feed.Items[1].PromotionalPrice == nil || *feed.Items[1].PromotionalPrice != 45 {
		t.Errorf("expected promotional price 45, got %v", feed.Items[1].PromotionalPrice)
	}
	if feed.WhatsappNumber != "5511999999999" {
		t.Errorf("unexpected contact number %q", feed.WhatsappNumber)
	}
	if len(feed.Categories) != 2 {
		t.Errorf("expected 2 categories, got %v", feed.Categories)
	}
}

func TestFileCatalogProviderYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	payload := `items:
  - id: 1
    name: Cadeira
    category: Móveis
    condition: Novo
    price: 120
    photos:
      - images/cadeira.jpg
whatsappNumber: "5511888887777"
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("failed to write feed: %v", err)
	}

	provider, err := NewFileCatalogProvider(path)
	if err != nil {
		t.Fatalf("NewFileCatalogProvider returned error: %v", err)
	}

	feed, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].Name != "Cadeira" {
		t.Fatalf("unexpected items %+v", feed.Items)
	}
	if feed.Items[0].Price != 120 {
		t.Errorf("unexpected price %v", feed.Items[0].Price)
	}
}

func TestFileCatalogProviderMissingFile(t *testing.T) {
	provider, err := NewFileCatalogProvider(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFileCatalogProvider returned error: %v", err)
	}

	_, err = provider.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected fetch error, got nil")
	}
	loadErr, ok := AsLoadError(err)
	if !ok {
		t.Fatalf("expected LoadError, got %T", err)
	}
	if !loadErr.IsFetch() {
		t.Errorf("expected fetch kind, got %s", loadErr.Kind)
	}
}

func TestFileCatalogProviderMalformedPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write feed: %v", err)
	}

	provider, err := NewFileCatalogProvider(path)
	if err != nil {
		t.Fatalf("NewFileCatalogProvider returned error: %v", err)
	}

	_, err = provider.Fetch(context.Background())
	loadErr, ok := AsLoadError(err)
	if !ok {
		t.Fatalf("expected LoadError, got %T", err)
	}
	if !loadErr.IsDecode() {
		t.Errorf("expected decode kind, got %s", loadErr.Kind)
	}
}

func TestNewFileCatalogProviderRequiresPath(t *testing.T) {
	if _, err := NewFileCatalogProvider("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
