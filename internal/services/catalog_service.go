package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	domain "github.com/bazarlivre/vitrine/internal/domain"
	"github.com/bazarlivre/vitrine/internal/repositories"
)

// UnavailableMessage is the fixed user-visible text shown while the catalog
// is in the terminal unavailable state.
const UnavailableMessage = "Não foi possível carregar os itens. Tente novamente mais tarde."

var (
	// ErrCatalogProviderMissing indicates the provider dependency is absent.
	ErrCatalogProviderMissing = errors.New("catalog store: provider is not configured")
	// ErrCatalogUnavailable indicates the catalog failed to load or has not loaded yet.
	ErrCatalogUnavailable = errors.New("catalog store: catalog unavailable")
	// ErrItemNotFound indicates no item with the requested id exists in the snapshot.
	ErrItemNotFound = errors.New("catalog store: item not found")
)

// CatalogStoreDeps bundles constructor inputs for the catalog store.
type CatalogStoreDeps struct {
	Provider repositories.CatalogProvider
	Logger   *zap.Logger
}

type catalogStore struct {
	provider repositories.CatalogProvider
	logger   *zap.Logger

	mu       sync.RWMutex
	loaded   bool
	loadErr  error
	snapshot domain.CatalogSnapshot
}

// NewCatalogStore constructs the catalog store with the supplied dependencies.
func NewCatalogStore(deps CatalogStoreDeps) (CatalogStore, error) {
	if deps.Provider == nil {
		return nil, ErrCatalogProviderMissing
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &catalogStore{provider: deps.Provider, logger: logger}, nil
}

func (s *catalogStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.loadErr
	}
	s.loaded = true

	feed, err := s.provider.Fetch(ctx)
	if err != nil {
		s.loadErr = err
		s.logger.Error("catalog load failed", zap.Error(err))
		return err
	}

	snapshot, err := buildSnapshot(feed)
	if err != nil {
		s.loadErr = &repositories.LoadError{Kind: repositories.LoadErrorDecode, Source: "feed", Err: err}
		s.logger.Error("catalog feed rejected", zap.Error(err))
		return s.loadErr
	}

	s.snapshot = snapshot
	s.logger.Info("catalog loaded",
		zap.Int("items", len(snapshot.Items)),
		zap.Int("categories", len(snapshot.Categories)),
	)
	return nil
}

func (s *catalogStore) Snapshot() (domain.CatalogSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded || s.loadErr != nil {
		return domain.CatalogSnapshot{}, ErrCatalogUnavailable
	}
	return s.snapshot, nil
}

func (s *catalogStore) ItemByID(id int) (domain.Item, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return domain.Item{}, err
	}
	item, ok := snapshot.ItemByID(id)
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	return item, nil
}

func buildSnapshot(feed repositories.CatalogFeed) (domain.CatalogSnapshot, error) {
	items := make([]domain.Item, 0, len(feed.Items))
	seen := make(map[int]struct{}, len(feed.Items))
	for _, record := range feed.Items {
		if _, dup := seen[record.ID]; dup {
			return domain.CatalogSnapshot{}, fmt.Errorf("duplicate item id %d", record.ID)
		}
		seen[record.ID] = struct{}{}
		if record.Price < 0 {
			return domain.CatalogSnapshot{}, fmt.Errorf("negative price on item %d", record.ID)
		}
		items = append(items, domain.Item{
			ID:               record.ID,
			Name:             strings.TrimSpace(record.Name),
			Description:      strings.TrimSpace(record.Description),
			Category:         strings.TrimSpace(record.Category),
			Condition:        strings.TrimSpace(record.Condition),
			Price:            record.Price,
			PromotionalPrice: record.PromotionalPrice,
			Photos:           copyPhotoRefs(record.Photos),
		})
	}

	categories := feed.Categories
	if len(categories) == 0 {
		categories = distinctCategories(items)
	} else {
		categories = dedupeStrings(categories)
	}

	return domain.CatalogSnapshot{
		Items:         items,
		Categories:    categories,
		ContactNumber: normalizeContactNumber(feed.WhatsappNumber),
	}, nil
}

func distinctCategories(items []domain.Item) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// normalizeContactNumber strips everything but digits so the contact id plugs
// straight into the wa.me deep link.
func normalizeContactNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func copyPhotoRefs(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		trimmed := strings.TrimSpace(ref)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
