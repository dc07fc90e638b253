package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/api/middleware"
	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/api/validators"
	cartsvc "github.com/feastly-app/feastly-backend/internal/cart"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

type quoteLineRequest struct {
	ItemID       string   `json:"item_id" validate:"required,uuid"`
	VariantID    string   `json:"variant_id,omitempty"`
	AddonIDs     []string `json:"addon_ids,omitempty"`
	Quantity     int      `json:"quantity" validate:"required,min=1"`
	Instructions string   `json:"instructions,omitempty"`
}

type quoteRequest struct {
	StoreID        string             `json:"store_id" validate:"required,uuid"`
	Lines          []quoteLineRequest `json:"lines" validate:"required,min=1,dive"`
	DeliveryMethod string             `json:"delivery_method" validate:"required,oneof=delivery pickup"`
	ZoneID         *string            `json:"zone_id,omitempty" validate:"omitempty,uuid"`
	CouponCode     *string            `json:"coupon_code,omitempty"`
	TipCents       int64              `json:"tip_cents" validate:"min=0"`
}

// CartQuote prices the submitted cart and returns the itemized summary.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := toQuoteRequest(payload, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Quote(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

func toQuoteRequest(payload quoteRequest, userID uuid.UUID) (cartsvc.QuoteRequest, error) {
	storeID, err := uuid.Parse(payload.StoreID)
	if err != nil {
		return cartsvc.QuoteRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	method, err := enums.ParseDeliveryMethod(payload.DeliveryMethod)
	if err != nil {
		return cartsvc.QuoteRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method")
	}

	req := cartsvc.QuoteRequest{
		StoreID:        storeID,
		UserID:         userID,
		DeliveryMethod: method,
		CouponCode:     payload.CouponCode,
		TipCents:       payload.TipCents,
	}

	if payload.ZoneID != nil {
		zoneID, err := uuid.Parse(*payload.ZoneID)
		if err != nil {
			return cartsvc.QuoteRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid zone id")
		}
		req.ZoneID = &zoneID
	}

	for _, line := range payload.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			return cartsvc.QuoteRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
		}
		req.Lines = append(req.Lines, cartsvc.QuoteLine{
			ItemID:       itemID,
			VariantID:    line.VariantID,
			AddonIDs:     line.AddonIDs,
			Quantity:     line.Quantity,
			Instructions: line.Instructions,
		})
	}

	return req, nil
}

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}
