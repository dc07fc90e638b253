package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feastly-app/feastly-backend/internal/catalog"
	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// defaultMaxInstructionChars bounds free-text special instructions when the
// caller does not supply a limit.
const defaultMaxInstructionChars = 280

// LineSelection is one requested cart line before pricing. VariantID may be
// empty, in which case the item's default variant applies. AddonIDs are
// treated as a set; duplicates collapse.
type LineSelection struct {
	ItemID       uuid.UUID
	VariantID    string
	AddonIDs     []string
	Quantity     int
	Instructions string
}

// Zone carries the delivery fee and minimum order for the selected zone.
type Zone struct {
	ID            uuid.UUID
	Name          string
	FeeCents      int64
	MinOrderCents int64
}

// TaxRule applies a named rate (basis points) to the discounted subtotal.
type TaxRule struct {
	Label   string
	RateBps int
}

// FeeRule adds a named service fee. Flat fees use AmountCents; percent fees
// apply RateBps to the gross subtotal, independent of discounts and taxes.
type FeeRule struct {
	Label       string
	Type        enums.FeeType
	AmountCents int64
	RateBps     int
}

// CouponRule is the discount behaviour of a resolved coupon. Eligibility is
// the resolver's concern; the engine only computes the amount.
type CouponRule struct {
	Code             string
	Type             enums.DiscountType
	Value            decimal.Decimal
	MaxDiscountCents *int64
}

// CartInput is the full request for one pricing computation.
type CartInput struct {
	StoreID             uuid.UUID
	UserID              uuid.UUID
	Lines               []LineSelection
	DeliveryMethod      enums.DeliveryMethod
	Zone                *Zone
	CouponCode          *string
	TipCents            int64
	TaxRules            []TaxRule
	FeeRules            []FeeRule
	MaxInstructionChars int
	Now                 time.Time
}

// ItemSource resolves menu items into immutable snapshots.
type ItemSource interface {
	GetItem(ctx context.Context, id uuid.UUID) (*catalog.ItemSnapshot, error)
}

// CouponResolver resolves a code into a discount rule. Resolve returns
// (nil, nil) for unknown codes; the engine treats that the same as an
// ineligible coupon and prices the cart without a discount.
type CouponResolver interface {
	Resolve(ctx context.Context, code string) (*CouponRule, error)
	CheckEligibility(ctx context.Context, code string, userID, storeID uuid.UUID, subtotalCents int64, now time.Time) (bool, string, error)
}

// Deps bundles the external collaborators the engine consumes.
type Deps struct {
	Items   ItemSource
	Coupons CouponResolver
}
