package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/feastly-app/feastly-backend/internal/catalog"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

type stubItems struct {
	items map[uuid.UUID]*catalog.ItemSnapshot
}

func (s *stubItems) GetItem(_ context.Context, id uuid.UUID) (*catalog.ItemSnapshot, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item not found")
	}
	return item, nil
}

type stubCoupons struct {
	rule     *CouponRule
	eligible bool
	reason   string
	err      error
}

func (s *stubCoupons) Resolve(_ context.Context, _ string) (*CouponRule, error) {
	return s.rule, s.err
}

func (s *stubCoupons) CheckEligibility(_ context.Context, _ string, _, _ uuid.UUID, _ int64, _ time.Time) (bool, string, error) {
	return s.eligible, s.reason, s.err
}

func newTestEngine(t *testing.T, items *stubItems, coupons *stubCoupons) *Engine {
	t.Helper()
	if coupons == nil {
		coupons = &stubCoupons{}
	}
	engine, err := NewEngine(Deps{Items: items, Coupons: coupons})
	require.NoError(t, err)
	return engine
}

func simpleItem(priceCents int64) *catalog.ItemSnapshot {
	return &catalog.ItemSnapshot{
		ID:             uuid.New(),
		StoreID:        uuid.New(),
		Name:           "Test Item",
		BasePriceCents: priceCents,
		Available:      true,
	}
}

func strPtr(s string) *string { return &s }

func TestPriceCartVariantAndAddonTotals(t *testing.T) {
	item := testBurger()
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, VariantID: "var-large", AddonIDs: []string{"add-bacon"}, Quantity: 2}},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	require.NoError(t, err)

	require.Len(t, summary.Lines, 1)
	require.Equal(t, int64(2349), summary.Lines[0].UnitPriceCents)
	require.Equal(t, int64(4698), summary.SubtotalCents)
	require.Equal(t, int64(4698), summary.GrandTotalCents)
	require.NotEmpty(t, summary.ContentHash)
}

func TestPriceCartMergesDefaultVariantWithExplicitDefault(t *testing.T) {
	item := testBurger()
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID: item.StoreID,
		Lines: []LineSelection{
			{ItemID: item.ID, Quantity: 1, Instructions: "no onions"},
			{ItemID: item.ID, VariantID: "var-regular", Quantity: 2, Instructions: "extra napkins"},
		},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	require.NoError(t, err)

	require.Len(t, summary.Lines, 1)
	require.Equal(t, 3, summary.Lines[0].Quantity)
	require.Equal(t, "no onions; extra napkins", summary.Lines[0].Instructions)
	require.Equal(t, int64(1699*3), summary.SubtotalCents)
}

func TestPriceCartDistinctAddonSetsDoNotMerge(t *testing.T) {
	item := testBurger()
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID: item.StoreID,
		Lines: []LineSelection{
			{ItemID: item.ID, Quantity: 1, AddonIDs: []string{"add-bacon"}},
			{ItemID: item.ID, Quantity: 1, AddonIDs: []string{"add-cheese"}},
		},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	require.NoError(t, err)
	require.Len(t, summary.Lines, 2)
}

func TestPriceCartPercentCouponWithCap(t *testing.T) {
	item := simpleItem(5000)
	cap := int64(500)
	coupons := &stubCoupons{
		rule: &CouponRule{
			Code:             "WELCOME10",
			Type:             enums.DiscountTypePercent,
			Value:            decimal.NewFromInt(10),
			MaxDiscountCents: &cap,
		},
		eligible: true,
	}
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, coupons)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 2}},
		DeliveryMethod: enums.DeliveryMethodPickup,
		CouponCode:     strPtr("WELCOME10"),
	})
	require.NoError(t, err)

	require.Equal(t, int64(10000), summary.SubtotalCents)
	require.Len(t, summary.Discounts, 1)
	require.Equal(t, int64(500), summary.Discounts[0].AmountCents)
	require.Equal(t, "WELCOME10", *summary.Discounts[0].Code)
	require.Equal(t, int64(9500), summary.GrandTotalCents)
}

func TestPriceCartFixedCoupon(t *testing.T) {
	item := simpleItem(2000)
	coupons := &stubCoupons{
		rule: &CouponRule{
			Code:  "FREESHIP",
			Type:  enums.DiscountTypeFixed,
			Value: decimal.RequireFromString("2.99"),
		},
		eligible: true,
	}
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, coupons)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 2}},
		DeliveryMethod: enums.DeliveryMethodPickup,
		CouponCode:     strPtr("FREESHIP"),
	})
	require.NoError(t, err)

	require.Equal(t, int64(4000), summary.SubtotalCents)
	require.Equal(t, int64(299), summary.Discounts[0].AmountCents)
	require.Equal(t, int64(3701), summary.GrandTotalCents)
}

func TestPriceCartIneligibleCouponSilentlySkipped(t *testing.T) {
	item := simpleItem(1000)
	coupons := &stubCoupons{
		rule:     &CouponRule{Code: "EXPIRED", Type: enums.DiscountTypePercent, Value: decimal.NewFromInt(50)},
		eligible: false,
		reason:   "coupon_expired",
	}
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, coupons)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
		CouponCode:     strPtr("EXPIRED"),
	})
	require.NoError(t, err)
	require.Empty(t, summary.Discounts)
	require.Equal(t, int64(1000), summary.GrandTotalCents)
}

func TestPriceCartUnknownCouponSilentlySkipped(t *testing.T) {
	item := simpleItem(1000)
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, &stubCoupons{rule: nil})

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
		CouponCode:     strPtr("NOPE"),
	})
	require.NoError(t, err)
	require.Empty(t, summary.Discounts)
}

func TestPriceCartOversizedFixedCouponClampsToSubtotal(t *testing.T) {
	item := simpleItem(1000)
	coupons := &stubCoupons{
		rule:     &CouponRule{Code: "BIG50", Type: enums.DiscountTypeFixed, Value: decimal.NewFromInt(50)},
		eligible: true,
	}
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, coupons)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
		CouponCode:     strPtr("BIG50"),
	})
	require.NoError(t, err)

	require.Equal(t, int64(1000), summary.Discounts[0].AmountCents)
	require.Equal(t, int64(0), summary.GrandTotalCents)
}

func TestPriceCartDeliveryMinimum(t *testing.T) {
	item := simpleItem(1000)
	zone := &Zone{ID: uuid.New(), Name: "Downtown", FeeCents: 300, MinOrderCents: 1500}
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	_, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodDelivery,
		Zone:           zone,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for unmet minimum, got %v", err)
	}

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), summary.DeliveryFeeCents)
	require.Equal(t, int64(1000), summary.GrandTotalCents)
}

func TestPriceCartDeliveryFeeApplied(t *testing.T) {
	item := simpleItem(2000)
	zone := &Zone{ID: uuid.New(), Name: "Downtown", FeeCents: 300, MinOrderCents: 1500}
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodDelivery,
		Zone:           zone,
	})
	require.NoError(t, err)
	require.Equal(t, int64(300), summary.DeliveryFeeCents)
	require.Equal(t, int64(2300), summary.GrandTotalCents)
}

func TestPriceCartTaxesOnDiscountedSubtotal(t *testing.T) {
	item := simpleItem(5000)
	cap := int64(500)
	coupons := &stubCoupons{
		rule: &CouponRule{
			Code:             "WELCOME10",
			Type:             enums.DiscountTypePercent,
			Value:            decimal.NewFromInt(10),
			MaxDiscountCents: &cap,
		},
		eligible: true,
	}
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, coupons)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 2}},
		DeliveryMethod: enums.DeliveryMethodPickup,
		CouponCode:     strPtr("WELCOME10"),
		TaxRules:       []TaxRule{{Label: "Sales Tax", RateBps: 825}},
		FeeRules:       []FeeRule{{Label: "Service Fee", Type: enums.FeeTypePercent, RateBps: 200}},
		TipCents:       1000,
	})
	require.NoError(t, err)

	// tax on 10000-500, fee on the gross 10000
	require.Equal(t, int64(784), summary.Taxes[0].AmountCents)
	require.Equal(t, int64(200), summary.Fees[0].AmountCents)
	require.Equal(t, int64(9500+784+200+1000), summary.GrandTotalCents)
}

func TestPriceCartFlatFee(t *testing.T) {
	item := simpleItem(1000)
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	summary, err := engine.PriceCart(context.Background(), CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
		FeeRules:       []FeeRule{{Label: "Bag Fee", Type: enums.FeeTypeFlat, AmountCents: 25}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(25), summary.Fees[0].AmountCents)
	require.Equal(t, int64(1025), summary.GrandTotalCents)
}

func TestPriceCartDeterministicHash(t *testing.T) {
	item := testBurger()
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	input := CartInput{
		StoreID:        item.StoreID,
		Lines:          []LineSelection{{ItemID: item.ID, VariantID: "var-large", AddonIDs: []string{"add-cheese", "add-bacon"}, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
	}

	first, err := engine.PriceCart(context.Background(), input)
	require.NoError(t, err)
	second, err := engine.PriceCart(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.ContentHash, second.ContentHash)

	// addon order within the selection must not affect the hash
	input.Lines[0].AddonIDs = []string{"add-bacon", "add-cheese"}
	third, err := engine.PriceCart(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.ContentHash, third.ContentHash)

	input.Lines[0].Quantity = 2
	fourth, err := engine.PriceCart(context.Background(), input)
	require.NoError(t, err)
	require.NotEqual(t, first.ContentHash, fourth.ContentHash)
}

func TestPriceCartInputValidation(t *testing.T) {
	item := simpleItem(1000)
	engine := newTestEngine(t, &stubItems{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, nil)

	_, err := engine.PriceCart(context.Background(), CartInput{
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}

	_, err = engine.PriceCart(context.Background(), CartInput{
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethod("drone"),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad delivery method, got %v", err)
	}

	long := make([]byte, defaultMaxInstructionChars+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = engine.PriceCart(context.Background(), CartInput{
		Lines:          []LineSelection{{ItemID: item.ID, Quantity: 1, Instructions: string(long)}},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for long instructions, got %v", err)
	}

	_, err = engine.PriceCart(context.Background(), CartInput{
		Lines:          []LineSelection{{ItemID: uuid.New(), Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown item, got %v", err)
	}
}
