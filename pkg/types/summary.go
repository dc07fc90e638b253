package types

import "github.com/feastly-app/feastly-backend/pkg/enums"

// SummaryLine is one priced cart line as it appears in a CartSummary.
// Addon ids are kept sorted so identical selections always serialize the
// same way.
type SummaryLine struct {
	ItemID         string   `json:"item_id"`
	ItemName       string   `json:"item_name"`
	VariantID      *string  `json:"variant_id,omitempty"`
	VariantName    *string  `json:"variant_name,omitempty"`
	AddonIDs       []string `json:"addon_ids,omitempty"`
	AddonNames     []string `json:"addon_names,omitempty"`
	Quantity       int      `json:"quantity"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	TotalCents     int64    `json:"total_cents"`
	Instructions   string   `json:"instructions,omitempty"`
}

// DiscountLine records one applied discount, with the coupon code that
// produced it when applicable.
type DiscountLine struct {
	Label       string  `json:"label"`
	Code        *string `json:"code,omitempty"`
	AmountCents int64   `json:"amount_cents"`
}

// TaxLine records one named tax applied to the discounted subtotal.
type TaxLine struct {
	Label       string `json:"label"`
	RateBps     int    `json:"rate_bps"`
	AmountCents int64  `json:"amount_cents"`
}

// FeeLine records one service fee.
type FeeLine struct {
	Label       string        `json:"label"`
	Type        enums.FeeType `json:"type"`
	AmountCents int64         `json:"amount_cents"`
}

// CartSummary is the full itemized pricing breakdown. The content hash is a
// fingerprint of every other field, so identical inputs always produce an
// identical summary including the hash.
type CartSummary struct {
	Lines            []SummaryLine        `json:"lines"`
	SubtotalCents    int64                `json:"subtotal_cents"`
	Discounts        []DiscountLine       `json:"discounts"`
	Taxes            []TaxLine            `json:"taxes"`
	Fees             []FeeLine            `json:"fees"`
	DeliveryMethod   enums.DeliveryMethod `json:"delivery_method"`
	DeliveryFeeCents int64                `json:"delivery_fee_cents"`
	TipCents         int64                `json:"tip_cents"`
	GrandTotalCents  int64                `json:"grand_total_cents"`
	ContentHash      string               `json:"content_hash"`
}
