package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/feastly-app/feastly-backend/internal/catalog"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

func testBurger() *catalog.ItemSnapshot {
	return &catalog.ItemSnapshot{
		ID:             uuid.MustParse("5f1c9d7e-0000-4000-8000-000000000001"),
		StoreID:        uuid.MustParse("5f1c9d7e-0000-4000-8000-0000000000aa"),
		Name:           "Classic Burger",
		BasePriceCents: 1699,
		Available:      true,
		Variants: []types.Variant{
			{ID: "var-regular", Name: "Regular", PriceDeltaCents: 0, IsDefault: true},
			{ID: "var-large", Name: "Large", PriceDeltaCents: 400},
		},
		AddonGroups: []types.AddonGroup{
			{
				ID:        "grp-extras",
				Name:      "Extras",
				MinSelect: 0,
				MaxSelect: 2,
				Addons: []types.Addon{
					{ID: "add-bacon", Name: "Bacon", PriceDeltaCents: 250, Available: true},
					{ID: "add-cheese", Name: "Cheese", PriceDeltaCents: 100, Available: true},
					{ID: "add-truffle", Name: "Truffle", PriceDeltaCents: 900, Available: false},
				},
			},
		},
	}
}

func TestPriceLineUnitPriceIncludesVariantAndAddons(t *testing.T) {
	item := testBurger()

	line, err := PriceLine(item, LineSelection{
		ItemID:    item.ID,
		VariantID: "var-large",
		AddonIDs:  []string{"add-bacon"},
		Quantity:  2,
	})
	require.NoError(t, err)

	if line.UnitPriceCents != 2349 {
		t.Fatalf("unit price = %d, want 2349", line.UnitPriceCents)
	}
	if line.TotalCents != 4698 {
		t.Fatalf("total = %d, want 4698", line.TotalCents)
	}
	require.NotNil(t, line.VariantID)
	require.Equal(t, "var-large", *line.VariantID)
	require.Equal(t, []string{"add-bacon"}, line.AddonIDs)
}

func TestPriceLineDefaultVariantWhenOmitted(t *testing.T) {
	item := testBurger()

	line, err := PriceLine(item, LineSelection{ItemID: item.ID, Quantity: 1})
	require.NoError(t, err)

	require.NotNil(t, line.VariantID)
	require.Equal(t, "var-regular", *line.VariantID)
	require.Equal(t, int64(1699), line.UnitPriceCents)
}

func TestPriceLineDuplicateAddonsCollapse(t *testing.T) {
	item := testBurger()

	line, err := PriceLine(item, LineSelection{
		ItemID:   item.ID,
		AddonIDs: []string{"add-cheese", "add-bacon", "add-cheese"},
		Quantity: 1,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"add-bacon", "add-cheese"}, line.AddonIDs)
	require.Equal(t, int64(1699+250+100), line.UnitPriceCents)
}

func TestPriceLineCollectsAllViolations(t *testing.T) {
	item := testBurger()
	item.Available = false

	_, err := PriceLine(item, LineSelection{
		ItemID:    item.ID,
		VariantID: "var-missing",
		AddonIDs:  []string{"add-nope", "add-truffle"},
		Quantity:  0,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("code = %v, want validation", err)
	}

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	violations, ok := details["violations"].([]LineViolation)
	require.True(t, ok)
	require.Len(t, violations, 5)
}

func TestPriceLineAddonCardinality(t *testing.T) {
	item := testBurger()
	item.AddonGroups[0].MinSelect = 1

	_, err := PriceLine(item, LineSelection{ItemID: item.ID, Quantity: 1})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unmet min select, got %v", err)
	}

	_, err = PriceLine(item, LineSelection{
		ItemID:   item.ID,
		AddonIDs: []string{"add-bacon", "add-cheese"},
		Quantity: 1,
	})
	require.NoError(t, err)

	item.AddonGroups[0].MaxSelect = 1
	_, err = PriceLine(item, LineSelection{
		ItemID:   item.ID,
		AddonIDs: []string{"add-bacon", "add-cheese"},
		Quantity: 1,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for exceeded max select, got %v", err)
	}
}
