package view

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	domain "github.com/bazarlivre/vitrine/internal/domain"
)

const (
	noResultsText      = "Nenhum item encontrado com os filtros selecionados."
	missingPhotoText   = "Sem imagem"
	prevLabel          = "❮"
	nextLabel          = "❯"
	contactButtonLabel = "💬 Tenho Interesse"
	defaultPlaceholder = "images/placeholder.png"
	cardIDFormat       = "card-%d"
)

// CopyButtonLabel is the resting label of the copy control. The dispatcher
// restores it after the copy confirmation interval elapses.
const CopyButtonLabel = "📋 Copiar Infos"

// Renderer maps an ordered item list to a presentation tree. Rendering is
// deterministic and total: malformed items degrade to placeholder nodes
// instead of failing.
type Renderer struct {
	markdown       goldmark.Markdown
	policy         *bluemonday.Policy
	placeholderRef string
}

// RendererOption customises renderer construction.
type RendererOption func(*Renderer)

// WithPlaceholderRef overrides the fallback image reference substituted for
// broken photo references.
func WithPlaceholderRef(ref string) RendererOption {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(ref); trimmed != "" {
			r.placeholderRef = trimmed
		}
	}
}

// NewRenderer constructs a renderer with the markdown and sanitizing pipeline
// used for item descriptions.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		markdown:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:         bluemonday.UGCPolicy(),
		placeholderRef: defaultPlaceholder,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// CardID returns the card identifier rendered for the given item.
func CardID(itemID int) string {
	return fmt.Sprintf(cardIDFormat, itemID)
}

// Render rebuilds the presentation tree for the given items and returns it
// together with a fresh carousel registry primed at index 0 for every card
// with two or more photos. Previous carousel progress does not carry over.
func (r *Renderer) Render(items []domain.Item) (*Tree, *Registry) {
	registry := NewRegistry()

	if len(items) == 0 {
		return &Tree{NoResults: &Notice{Text: noResultsText}}, registry
	}

	cards := make([]*Card, 0, len(items))
	for _, item := range items {
		card := r.renderCard(item)
		registry.register(card.ID, item.Photos)
		cards = append(cards, card)
	}
	return &Tree{Cards: cards}, registry
}

func (r *Renderer) renderCard(item domain.Item) *Card {
	return &Card{
		ID:     CardID(item.ID),
		ItemID: item.ID,
		Photos: r.renderPhotoRegion(item),
		Info: InfoRegion{
			Name:            item.Name,
			Description:     item.Description,
			DescriptionHTML: r.renderDescription(item.Description),
			Condition: Tag{
				Label:      item.Condition,
				StyleToken: domain.ConditionStyleToken(item.Condition),
			},
			Category: item.Category,
			Price:    renderPriceBlock(item),
		},
		Actions: ActionsRegion{
			Contact: Button{Label: contactButtonLabel},
			Copy:    Button{Label: CopyButtonLabel},
		},
	}
}

func (r *Renderer) renderPhotoRegion(item domain.Item) PhotoRegion {
	if len(item.Photos) == 0 {
		return PhotoRegion{Placeholder: &Notice{Text: missingPhotoText}}
	}

	region := PhotoRegion{
		BlurRef:     item.Photos[0],
		ActiveIndex: 0,
	}
	for index, ref := range item.Photos {
		region.Slides = append(region.Slides, PhotoSlide{
			Index:       index,
			Ref:         ref,
			FallbackRef: r.placeholderRef,
			Visible:     index == 0,
		})
	}
	if len(item.Photos) > 1 {
		region.Nav = []NavButton{
			{Direction: -1, Label: prevLabel},
			{Direction: 1, Label: nextLabel},
		}
		for index := range item.Photos {
			region.Dots = append(region.Dots, Dot{Index: index, Active: index == 0})
		}
	}
	return region
}

// renderDescription converts markdown to sanitized HTML. Conversion failures
// degrade to the raw text run through the sanitizer.
func (r *Renderer) renderDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(trimmed), &buf); err != nil {
		return r.policy.Sanitize(trimmed)
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String()))
}

func renderPriceBlock(item domain.Item) PriceBlock {
	if item.HasPromotion() {
		return PriceBlock{
			Current:     domain.FormatPrice(item.EffectivePrice()),
			Original:    domain.FormatPrice(item.Price),
			Promotional: true,
		}
	}
	return PriceBlock{Current: domain.FormatPrice(item.Price)}
}
