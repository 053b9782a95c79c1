// Package view builds the presentation tree for catalog listings and owns the
// transient carousel state layered on top of it. The tree is a plain data
// structure: it carries no references to any UI toolkit so it can be rendered
// by any surface (JSON API, server-side HTML, tests).
package view

// Tree is the full presentation for one render pass. Exactly one of NoResults
// or Cards is populated: an empty filtered list yields the no-results notice,
// a non-empty list yields one card per item in input order.
type Tree struct {
	NoResults *Notice `json:"no_results,omitempty"`
	Cards     []*Card `json:"cards,omitempty"`
}

// Notice is a simple text node (no-results message, missing-photo label).
type Notice struct {
	Text string `json:"text"`
}

// Card presents a single item: photo region, info region, actions region.
type Card struct {
	ID      string        `json:"id"`
	ItemID  int           `json:"item_id"`
	Photos  PhotoRegion   `json:"photos"`
	Info    InfoRegion    `json:"info"`
	Actions ActionsRegion `json:"actions"`
}

// PhotoRegion presents the item's photos. When the item has none, only
// Placeholder is set and no fetch is attempted. Otherwise every photo is
// present in the tree with visibility flags so carousel transitions are pure
// visibility toggles.
type PhotoRegion struct {
	Placeholder *Notice      `json:"placeholder,omitempty"`
	BlurRef     string       `json:"blur_ref,omitempty"`
	Slides      []PhotoSlide `json:"slides,omitempty"`
	Nav         []NavButton  `json:"nav,omitempty"`
	Dots        []Dot        `json:"dots,omitempty"`
	ActiveIndex int          `json:"active_index"`
}

// PhotoSlide is one photo element. FallbackRef substitutes Ref when the
// reference fails to resolve at display time.
type PhotoSlide struct {
	Index       int    `json:"index"`
	Ref         string `json:"ref"`
	FallbackRef string `json:"fallback_ref"`
	Visible     bool   `json:"visible"`
}

// NavButton is a previous/next carousel control.
type NavButton struct {
	Direction int    `json:"direction"`
	Label     string `json:"label"`
}

// Dot is one carousel position indicator.
type Dot struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

// InfoRegion presents the descriptive fields of an item.
type InfoRegion struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	Condition       Tag        `json:"condition"`
	Category        string     `json:"category"`
	Price           PriceBlock `json:"price"`
}

// Tag pairs a display label with the token used for styling classes.
type Tag struct {
	Label      string `json:"label"`
	StyleToken string `json:"style_token"`
}

// PriceBlock presents the price line. When a promotion applies, Original
// carries the struck-through list price and Current the highlighted
// promotional price; otherwise only Current is set.
type PriceBlock struct {
	Current     string `json:"current"`
	Original    string `json:"original,omitempty"`
	Promotional bool   `json:"promotional"`
}

// ActionsRegion presents the per-card interactive controls.
type ActionsRegion struct {
	Contact Button `json:"contact"`
	Copy    Button `json:"copy"`
}

// Button is a labelled interactive control.
type Button struct {
	Label string `json:"label"`
}
