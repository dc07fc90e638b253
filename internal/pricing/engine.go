package pricing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/feastly-app/feastly-backend/internal/catalog"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// Engine prices a whole cart. It is deterministic: the same CartInput against
// the same catalog and coupon state always yields the same CartSummary,
// including its content hash.
type Engine struct {
	deps Deps
}

// NewEngine builds a pricing engine with its collaborators.
func NewEngine(deps Deps) (*Engine, error) {
	if deps.Items == nil {
		return nil, fmt.Errorf("item source required")
	}
	if deps.Coupons == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	return &Engine{deps: deps}, nil
}

// PriceCart computes the full summary for the cart: merged lines, subtotal,
// coupon discount, delivery fee, taxes, fees, tip and grand total.
//
// A coupon that resolves but fails an eligibility check is dropped silently;
// the summary simply carries no discount line. Structural problems in the
// request itself (bad items, bad quantities, minimum order not met) are
// returned as errors.
func (e *Engine) PriceCart(ctx context.Context, input CartInput) (*types.CartSummary, error) {
	if err := e.validateInput(input); err != nil {
		return nil, err
	}

	merged, err := e.mergeLines(ctx, input)
	if err != nil {
		return nil, err
	}

	summary := &types.CartSummary{
		DeliveryMethod: input.DeliveryMethod,
		TipCents:       input.TipCents,
	}

	var lineErrs error
	for _, m := range merged {
		line, err := PriceLine(m.item, m.sel)
		if err != nil {
			lineErrs = multierr.Append(lineErrs, err)
			continue
		}
		summary.Lines = append(summary.Lines, line)
		summary.SubtotalCents += line.TotalCents
	}
	if lineErrs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, lineErrs, "cart contains invalid lines")
	}
	sortLines(summary.Lines)

	discounted := summary.SubtotalCents
	if input.CouponCode != nil {
		discount, err := e.applyCoupon(ctx, input, summary.SubtotalCents)
		if err != nil {
			return nil, err
		}
		if discount != nil {
			summary.Discounts = append(summary.Discounts, *discount)
			discounted -= discount.AmountCents
		}
	}

	if input.DeliveryMethod == enums.DeliveryMethodDelivery {
		if input.Zone == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone is required for delivery orders")
		}
		if summary.SubtotalCents < input.Zone.MinOrderCents {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order does not meet the delivery minimum").WithDetails(map[string]any{
				"zone":            input.Zone.Name,
				"subtotal_cents":  summary.SubtotalCents,
				"min_order_cents": input.Zone.MinOrderCents,
			})
		}
		summary.DeliveryFeeCents = input.Zone.FeeCents
	}

	for _, rule := range input.TaxRules {
		amount := percentOf(discounted, rule.RateBps)
		summary.Taxes = append(summary.Taxes, types.TaxLine{
			Label:       rule.Label,
			RateBps:     rule.RateBps,
			AmountCents: amount,
		})
	}

	for _, rule := range input.FeeRules {
		fee := types.FeeLine{Label: rule.Label, Type: rule.Type}
		switch rule.Type {
		case enums.FeeTypeFlat:
			fee.AmountCents = rule.AmountCents
		case enums.FeeTypePercent:
			fee.AmountCents = percentOf(summary.SubtotalCents, rule.RateBps)
		default:
			return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown fee type %q", rule.Type))
		}
		summary.Fees = append(summary.Fees, fee)
	}

	total := discounted + summary.DeliveryFeeCents + summary.TipCents
	for _, tax := range summary.Taxes {
		total += tax.AmountCents
	}
	for _, fee := range summary.Fees {
		total += fee.AmountCents
	}
	if total < 0 {
		total = 0
	}
	summary.GrandTotalCents = total

	hash, err := ContentHash(summary)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute cart hash")
	}
	summary.ContentHash = hash

	return summary, nil
}

func (e *Engine) validateInput(input CartInput) error {
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart has no lines")
	}
	if !input.DeliveryMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery method")
	}
	if input.TipCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "tip cannot be negative")
	}
	limit := input.MaxInstructionChars
	if limit <= 0 {
		limit = defaultMaxInstructionChars
	}
	for _, sel := range input.Lines {
		if len(sel.Instructions) > limit {
			return pkgerrors.New(pkgerrors.CodeValidation, "special instructions too long").WithDetails(map[string]any{
				"item_id":   sel.ItemID.String(),
				"max_chars": limit,
			})
		}
	}
	return nil
}

// mergedLine pairs a merged selection with its resolved item snapshot so the
// snapshot is fetched once per distinct item.
type mergedLine struct {
	item *catalog.ItemSnapshot
	sel  LineSelection
}

// mergeLines collapses equivalent selections into one line. Equivalence is
// judged after resolving the effective variant, so a line that omits the
// variant and a line that names the default explicitly merge. Quantities sum
// and distinct instructions are joined.
func (e *Engine) mergeLines(ctx context.Context, input CartInput) ([]mergedLine, error) {
	items := make(map[uuid.UUID]*catalog.ItemSnapshot, len(input.Lines))
	byKey := make(map[string]int)
	var out []mergedLine

	for _, sel := range input.Lines {
		item, ok := items[sel.ItemID]
		if !ok {
			var err error
			item, err = e.deps.Items.GetItem(ctx, sel.ItemID)
			if err != nil {
				return nil, err
			}
			items[sel.ItemID] = item
		}

		variantID := sel.VariantID
		if variantID == "" {
			if def := item.DefaultVariant(); def != nil {
				variantID = def.ID
			}
		}
		normalized := sel
		normalized.VariantID = variantID
		normalized.AddonIDs = dedupeSorted(sel.AddonIDs)

		key := mergeKey(sel.ItemID, variantID, normalized.AddonIDs)
		if idx, exists := byKey[key]; exists {
			out[idx].sel.Quantity += normalized.Quantity
			out[idx].sel.Instructions = joinInstructions(out[idx].sel.Instructions, normalized.Instructions)
			continue
		}
		byKey[key] = len(out)
		out = append(out, mergedLine{item: item, sel: normalized})
	}

	return out, nil
}

func mergeKey(itemID uuid.UUID, variantID string, sortedAddonIDs []string) string {
	return itemID.String() + "|" + variantID + "|" + strings.Join(sortedAddonIDs, ",")
}

// joinInstructions combines instructions from merged lines, skipping blanks
// and duplicates.
func joinInstructions(existing, incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return existing
	}
	if existing == "" {
		return incoming
	}
	for _, part := range strings.Split(existing, "; ") {
		if part == incoming {
			return existing
		}
	}
	return existing + "; " + incoming
}

// applyCoupon resolves the code and computes the discount. Any ineligibility
// (unknown code, window, store, minimum, usage caps) drops the coupon without
// error; only infrastructure failures propagate.
func (e *Engine) applyCoupon(ctx context.Context, input CartInput, subtotalCents int64) (*types.DiscountLine, error) {
	code := *input.CouponCode
	rule, err := e.deps.Coupons.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}

	now := input.Now
	eligible, _, err := e.deps.Coupons.CheckEligibility(ctx, rule.Code, input.UserID, input.StoreID, subtotalCents, now)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, nil
	}

	amount, err := discountAmount(rule, subtotalCents)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, nil
	}

	appliedCode := rule.Code
	label := fmt.Sprintf("Coupon %s", appliedCode)
	return &types.DiscountLine{Label: label, Code: &appliedCode, AmountCents: amount}, nil
}

// discountAmount computes the coupon's value in cents, capped at the coupon's
// own maximum and clamped to the subtotal so the cart never goes negative.
func discountAmount(rule *CouponRule, subtotalCents int64) (int64, error) {
	var amount int64
	switch rule.Type {
	case enums.DiscountTypePercent:
		amount = decimal.NewFromInt(subtotalCents).
			Mul(rule.Value).
			Div(decimal.NewFromInt(100)).
			RoundBank(0).
			IntPart()
	case enums.DiscountTypeFixed:
		amount = rule.Value.Shift(2).RoundBank(0).IntPart()
	default:
		return 0, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown discount type %q", rule.Type))
	}
	if rule.MaxDiscountCents != nil && amount > *rule.MaxDiscountCents {
		amount = *rule.MaxDiscountCents
	}
	if amount > subtotalCents {
		amount = subtotalCents
	}
	return amount, nil
}

// percentOf applies a basis-point rate to an amount with banker's rounding.
func percentOf(amountCents int64, rateBps int) int64 {
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromInt(int64(rateBps))).
		Div(decimal.NewFromInt(10000)).
		RoundBank(0).
		IntPart()
}

// sortLines orders summary lines by their merge identity for stable output.
func sortLines(lines []types.SummaryLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lineSortKey(lines[i]) < lineSortKey(lines[j])
	})
}

func lineSortKey(l types.SummaryLine) string {
	variant := ""
	if l.VariantID != nil {
		variant = *l.VariantID
	}
	return l.ItemID + "|" + variant + "|" + strings.Join(l.AddonIDs, ",")
}
