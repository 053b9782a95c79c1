package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/bazarlivre/vitrine/internal/domain"
	"github.com/bazarlivre/vitrine/internal/view"
)

// ErrUnknownEvent is returned when Dispatch receives an event variant it does
// not recognise.
var ErrUnknownEvent = errors.New("dispatcher: unknown event")

// ErrNoCarousels is returned for carousel events dispatched before any render
// installed a registry.
var ErrNoCarousels = errors.New("dispatcher: no carousel registry installed")

const (
	contactMessageFormat = "Olá! Tenho interesse no item: %s."
	contactLinkFormat    = "https://wa.me/%s?text=%s"

	// CopyConfirmationLabel briefly replaces the copy control label after a
	// successful clipboard write.
	CopyConfirmationLabel = "Copiado!"

	defaultConfirmationTTL = 2 * time.Second
)

// Interaction kinds recorded to the interaction log.
const (
	KindContact         = "contact"
	KindCopy            = "copy"
	KindCarouselAdvance = "carousel_advance"
	KindCarouselSelect  = "carousel_select"
)

// InteractionEvent is the closed set of interaction variants the dispatcher
// accepts.
type InteractionEvent interface {
	isInteractionEvent()
}

// ContactEvent asks for a contact link for one item.
type ContactEvent struct {
	ItemID int
}

// CopyEvent asks for the item summary to be placed on the clipboard.
type CopyEvent struct {
	ItemID int
}

// CarouselAdvanceEvent moves a card's carousel one step in either direction.
type CarouselAdvanceEvent struct {
	CardID    string
	Direction int
}

// CarouselSelectEvent jumps a card's carousel to an absolute slide index.
type CarouselSelectEvent struct {
	CardID string
	Index  int
}

func (ContactEvent) isInteractionEvent()         {}
func (CopyEvent) isInteractionEvent()            {}
func (CarouselAdvanceEvent) isInteractionEvent() {}
func (CarouselSelectEvent) isInteractionEvent()  {}

// ActionResult describes the effect of a dispatched event.
type ActionResult struct {
	Kind string `json:"kind"`
	// ContactURL is set for contact events.
	ContactURL string `json:"contact_url,omitempty"`
	// CopyText and CopyLabel are set for copy events. Confirmed reports
	// whether the clipboard write succeeded; a failed write is silent and
	// leaves the label untouched.
	CopyText  string `json:"copy_text,omitempty"`
	CopyLabel string `json:"copy_label,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
	// Transition is set for carousel events that changed the active slide.
	Transition *view.Transition `json:"transition,omitempty"`
	Changed    bool             `json:"changed"`
}

type actionDispatcher struct {
	store     CatalogStore
	clipboard Clipboard
	log       InteractionLog
	logger    *zap.Logger
	ttl       time.Duration
	schedule  func(d time.Duration, fn func())

	mu        sync.Mutex
	carousels *view.Registry
	labels    map[int]string
}

// DispatcherDeps bundles constructor inputs for the action dispatcher.
type DispatcherDeps struct {
	Store     CatalogStore
	Clipboard Clipboard
	Log       InteractionLog
	Logger    *zap.Logger
	// ConfirmationTTL is how long the copy confirmation label stays before
	// reverting. Zero selects the default.
	ConfirmationTTL time.Duration
	// Schedule defers fn by d. Nil selects time.AfterFunc.
	Schedule func(d time.Duration, fn func())
}

// NewDispatcher creates an action dispatcher backed by the supplied catalog store.
func NewDispatcher(deps DispatcherDeps) (ActionDispatcher, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("dispatcher: catalog store is required")
	}

	ttl := deps.ConfirmationTTL
	if ttl <= 0 {
		ttl = defaultConfirmationTTL
	}

	schedule := deps.Schedule
	if schedule == nil {
		schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &actionDispatcher{
		store:     deps.Store,
		clipboard: deps.Clipboard,
		log:       deps.Log,
		logger:    logger,
		ttl:       ttl,
		schedule:  schedule,
		labels:    make(map[int]string),
	}, nil
}

// SetCarousels installs the registry produced by the latest render.
func (d *actionDispatcher) SetCarousels(registry *view.Registry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.carousels = registry
}

// CopyLabel reports the current copy control label for an item.
func (d *actionDispatcher) CopyLabel(itemID int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if label, ok := d.labels[itemID]; ok {
		return label
	}
	return view.CopyButtonLabel
}

// Dispatch routes one event. Unknown variants return ErrUnknownEvent; lookups
// against the catalog use the full loaded set regardless of active filters.
func (d *actionDispatcher) Dispatch(ctx context.Context, event InteractionEvent) (ActionResult, error) {
	switch ev := event.(type) {
	case ContactEvent:
		return d.dispatchContact(ev)
	case CopyEvent:
		return d.dispatchCopy(ctx, ev)
	case CarouselAdvanceEvent:
		return d.dispatchCarouselAdvance(ev)
	case CarouselSelectEvent:
		return d.dispatchCarouselSelect(ev)
	default:
		return ActionResult{}, ErrUnknownEvent
	}
}

func (d *actionDispatcher) dispatchContact(ev ContactEvent) (ActionResult, error) {
	item, err := d.store.ItemByID(ev.ItemID)
	if err != nil {
		return ActionResult{}, err
	}
	snapshot, err := d.store.Snapshot()
	if err != nil {
		return ActionResult{}, err
	}

	message := fmt.Sprintf(contactMessageFormat, item.Name)
	link := fmt.Sprintf(contactLinkFormat, snapshot.ContactNumber, encodeMessage(message))

	d.record(InteractionRecord{Kind: KindContact, ItemID: item.ID})
	return ActionResult{Kind: KindContact, ContactURL: link, Changed: true}, nil
}

func (d *actionDispatcher) dispatchCopy(ctx context.Context, ev CopyEvent) (ActionResult, error) {
	item, err := d.store.ItemByID(ev.ItemID)
	if err != nil {
		return ActionResult{}, err
	}

	text := buildCopyText(item)
	result := ActionResult{Kind: KindCopy, CopyText: text, CopyLabel: view.CopyButtonLabel, Changed: true}

	if d.clipboard != nil {
		if err := d.clipboard.Write(ctx, text); err != nil {
			// Clipboard failures are silent. The label is left at rest and
			// no confirmation is shown.
			d.logger.Debug("clipboard write failed", zap.Int("item_id", item.ID), zap.Error(err))
		} else {
			result.Confirmed = true
			result.CopyLabel = CopyConfirmationLabel
			d.confirmCopy(item.ID)
		}
	}

	d.record(InteractionRecord{Kind: KindCopy, ItemID: item.ID})
	return result, nil
}

// confirmCopy flips the item's copy label to the confirmation string and
// schedules the revert. The timer is fire and forget: re-renders or repeat
// copies do not cancel it, and the revert is idempotent.
func (d *actionDispatcher) confirmCopy(itemID int) {
	d.mu.Lock()
	d.labels[itemID] = CopyConfirmationLabel
	d.mu.Unlock()

	d.schedule(d.ttl, func() {
		d.mu.Lock()
		delete(d.labels, itemID)
		d.mu.Unlock()
	})
}

func (d *actionDispatcher) dispatchCarouselAdvance(ev CarouselAdvanceEvent) (ActionResult, error) {
	registry, err := d.registry()
	if err != nil {
		return ActionResult{}, err
	}

	transition, err := registry.Advance(ev.CardID, ev.Direction)
	if err != nil {
		return ActionResult{}, err
	}

	d.record(InteractionRecord{Kind: KindCarouselAdvance, CardID: ev.CardID})
	return ActionResult{Kind: KindCarouselAdvance, Transition: &transition, Changed: true}, nil
}

func (d *actionDispatcher) dispatchCarouselSelect(ev CarouselSelectEvent) (ActionResult, error) {
	registry, err := d.registry()
	if err != nil {
		return ActionResult{}, err
	}

	transition, changed, err := registry.Select(ev.CardID, ev.Index)
	if err != nil {
		return ActionResult{}, err
	}
	if !changed {
		return ActionResult{Kind: KindCarouselSelect}, nil
	}

	d.record(InteractionRecord{Kind: KindCarouselSelect, CardID: ev.CardID})
	return ActionResult{Kind: KindCarouselSelect, Transition: &transition, Changed: true}, nil
}

func (d *actionDispatcher) registry() (*view.Registry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.carousels == nil {
		return nil, ErrNoCarousels
	}
	return d.carousels, nil
}

func (d *actionDispatcher) record(rec InteractionRecord) {
	if d.log == nil {
		return
	}
	d.log.Record(rec)
}

// encodeMessage percent-encodes a contact message for use in a URL query,
// using %20 for spaces.
func encodeMessage(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

// buildCopyText assembles the shareable plain-text summary of an item.
func buildCopyText(item domain.Item) string {
	priceLine := "Preço: " + domain.FormatPrice(item.Price)
	if item.HasPromotion() {
		priceLine = "Preço Promocional: " + domain.FormatPrice(item.EffectivePrice())
	}

	lines := []string{
		"Item: " + item.Name,
		"Descrição: " + item.Description,
		priceLine,
		"Estado: " + item.Condition,
	}
	return strings.Join(lines, "\n")
}
