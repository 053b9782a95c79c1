package domain

// Item represents a single catalog listing. Items are immutable after load.
type Item struct {
	ID               int
	Name             string
	Description      string
	Category         string
	Condition        string
	Price            float64
	PromotionalPrice *float64
	Photos           []string
}

// HasPromotion reports whether a promotional price applies to the item.
func (i Item) HasPromotion() bool {
	return i.PromotionalPrice != nil
}

// EffectivePrice returns the promotional price when present, otherwise the list price.
func (i Item) EffectivePrice() float64 {
	if i.PromotionalPrice != nil {
		return *i.PromotionalPrice
	}
	return i.Price
}

// CatalogSnapshot is the immutable, fully-loaded catalog for the session.
type CatalogSnapshot struct {
	Items         []Item
	Categories    []string
	ContactNumber string
}

// ItemByID looks an item up against the full loaded set, ignoring any active filters.
func (s CatalogSnapshot) ItemByID(id int) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// PriceBracket identifies one of the fixed effective-price ranges offered by the price filter.
type PriceBracket string

const (
	// BracketAny applies no price constraint.
	BracketAny PriceBracket = ""
	// BracketUpTo50 matches effective prices of at most 50.
	BracketUpTo50 PriceBracket = "-50"
	// Bracket50To100 matches effective prices above 50 up to and including 100.
	Bracket50To100 PriceBracket = "50-100"
	// Bracket100To300 matches effective prices above 100 up to and including 300.
	Bracket100To300 PriceBracket = "100-300"
	// BracketAbove300 matches effective prices above 300.
	BracketAbove300 PriceBracket = "300+"
)

// FilterCriteria holds the four independent filter fields derived from control state.
// Empty fields apply no constraint.
type FilterCriteria struct {
	Name      string
	Category  string
	Condition string
	Price     PriceBracket
}

// IsEmpty reports whether no field constrains the catalog.
func (c FilterCriteria) IsEmpty() bool {
	return c.Name == "" && c.Category == "" && c.Condition == "" && c.Price == BracketAny
}
