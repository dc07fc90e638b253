package types

// Variant is a size/style choice on a menu item. The delta is signed and
// applied on top of the item's base price.
type Variant struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
	IsDefault       bool   `json:"is_default"`
}

// Addon is a single selectable extra inside an addon group.
type Addon struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
	Available       bool   `json:"available"`
}

// AddonGroup is a named set of addons with selection cardinality bounds.
// Invariant: Required implies MinSelect >= 1; MaxSelect >= MinSelect.
type AddonGroup struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	MinSelect int     `json:"min_select"`
	MaxSelect int     `json:"max_select"`
	Required  bool    `json:"required"`
	Addons    []Addon `json:"addons"`
}
