package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/api/responses"
	couponssvc "github.com/feastly-app/feastly-backend/internal/coupons"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

type eligibilityResponse struct {
	Code     string `json:"code"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// CouponEligibility explains whether a code would apply to the given cart
// context. The quote path never errors on an ineligible coupon; this endpoint
// is how the UI surfaces the reason.
func CouponEligibility(svc couponssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code := couponssvc.NormalizeCode(chi.URLParam(r, "code"))

		storeID, err := uuid.Parse(r.URL.Query().Get("store_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store_id"))
			return
		}

		subtotalCents, err := strconv.ParseInt(r.URL.Query().Get("subtotal_cents"), 10, 64)
		if err != nil || subtotalCents < 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "subtotal_cents must be a non-negative integer"))
			return
		}

		coupon, err := svc.GetCoupon(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eligibility, err := svc.CheckEligibility(r.Context(), coupon, userID, storeID, subtotalCents, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, eligibilityResponse{
			Code:     coupon.Code,
			Eligible: eligibility.Eligible,
			Reason:   eligibility.Reason,
		})
	}
}
