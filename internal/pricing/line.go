package pricing

import (
	"fmt"
	"sort"

	"github.com/feastly-app/feastly-backend/internal/catalog"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// LineViolation describes one constraint failure on a requested line.
type LineViolation struct {
	ItemID     string `json:"item_id"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// PriceLine prices a single cart line against the item snapshot. It is a
// pure function: all validation failures for the line are collected and
// returned together so the UI can render every problem at once.
func PriceLine(item *catalog.ItemSnapshot, sel LineSelection) (types.SummaryLine, error) {
	if item == nil {
		return types.SummaryLine{}, pkgerrors.New(pkgerrors.CodeValidation, "item snapshot is required")
	}

	var violations []LineViolation
	addViolation := func(constraint, message string) {
		violations = append(violations, LineViolation{
			ItemID:     item.ID.String(),
			Constraint: constraint,
			Message:    message,
		})
	}

	if sel.Quantity <= 0 {
		addViolation("quantity", "quantity must be a positive integer")
	}
	if !item.Available {
		addViolation("availability", fmt.Sprintf("%q is not available", item.Name))
	}

	line := types.SummaryLine{
		ItemID:       item.ID.String(),
		ItemName:     item.Name,
		Quantity:     sel.Quantity,
		Instructions: sel.Instructions,
	}

	unitPrice := item.BasePriceCents

	variant := item.DefaultVariant()
	if sel.VariantID != "" {
		variant = item.FindVariant(sel.VariantID)
		if variant == nil {
			addViolation("variant", fmt.Sprintf("variant %q does not exist on %q", sel.VariantID, item.Name))
		}
	}
	if variant != nil {
		unitPrice += variant.PriceDeltaCents
		variantID := variant.ID
		variantName := variant.Name
		line.VariantID = &variantID
		line.VariantName = &variantName
	}

	selected := dedupeSorted(sel.AddonIDs)
	countsByGroup := map[string]int{}
	for _, addonID := range selected {
		group, addon := item.FindAddon(addonID)
		if addon == nil {
			addViolation("addon", fmt.Sprintf("addon %q does not belong to %q", addonID, item.Name))
			continue
		}
		if !addon.Available {
			addViolation("addon_availability", fmt.Sprintf("addon %q is not available", addon.Name))
			continue
		}
		countsByGroup[group.ID]++
		unitPrice += addon.PriceDeltaCents
		line.AddonIDs = append(line.AddonIDs, addon.ID)
		line.AddonNames = append(line.AddonNames, addon.Name)
	}

	for _, group := range item.AddonGroups {
		count := countsByGroup[group.ID]
		if count < group.MinSelect || count > group.MaxSelect {
			addViolation("addon_cardinality", fmt.Sprintf(
				"group %q requires between %d and %d selections, got %d",
				group.Name, group.MinSelect, group.MaxSelect, count,
			))
		}
	}

	if len(violations) > 0 {
		return types.SummaryLine{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item selection").WithDetails(map[string]any{
			"violations": violations,
		})
	}

	line.UnitPriceCents = unitPrice
	line.TotalCents = unitPrice * int64(sel.Quantity)
	return line, nil
}

// dedupeSorted collapses duplicates and returns ids in a stable order, so
// identical addon sets always price and serialize identically.
func dedupeSorted(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
