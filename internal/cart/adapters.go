package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/internal/coupons"
	"github.com/feastly-app/feastly-backend/internal/pricing"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

// ReasonUnknownCode is reported when the coupon code does not exist. The
// quote path treats it like any other ineligibility.
const ReasonUnknownCode = "coupon_not_found"

// couponResolver adapts the coupon service to the pricing engine's resolver
// contract. Unknown codes resolve to nil so the engine skips them silently.
type couponResolver struct {
	svc coupons.Service
}

func (r couponResolver) Resolve(ctx context.Context, code string) (*pricing.CouponRule, error) {
	coupon, err := r.svc.GetCoupon(ctx, code)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pricing.CouponRule{
		Code:             coupon.Code,
		Type:             coupon.Type,
		Value:            coupon.Value,
		MaxDiscountCents: coupon.MaxDiscountCents,
	}, nil
}

func (r couponResolver) CheckEligibility(ctx context.Context, code string, userID, storeID uuid.UUID, subtotalCents int64, now time.Time) (bool, string, error) {
	coupon, err := r.svc.GetCoupon(ctx, code)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return false, ReasonUnknownCode, nil
		}
		return false, "", err
	}
	eligibility, err := r.svc.CheckEligibility(ctx, coupon, userID, storeID, subtotalCents, now)
	if err != nil {
		return false, "", err
	}
	return eligibility.Eligible, eligibility.Reason, nil
}
