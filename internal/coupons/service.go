package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

// Ineligibility reasons returned by CheckEligibility. The quote path never
// surfaces these as errors; the eligibility endpoint exposes them so the UI
// can explain why a code did not apply.
const (
	ReasonInactive         = "coupon_inactive"
	ReasonNotStarted       = "coupon_not_started"
	ReasonExpired          = "coupon_expired"
	ReasonStoreNotEligible = "store_not_eligible"
	ReasonSubtotalTooLow   = "subtotal_below_minimum"
	ReasonGlobalLimit      = "usage_limit_reached"
	ReasonUserLimit        = "user_limit_reached"
)

// Eligibility is the outcome of an eligibility check.
type Eligibility struct {
	Eligible bool
	Reason   string
}

// Service exposes coupon lookups, eligibility checks and redemption.
type Service interface {
	GetCoupon(ctx context.Context, code string) (*models.Coupon, error)
	CheckEligibility(ctx context.Context, coupon *models.Coupon, userID, storeID uuid.UUID, subtotalCents int64, now time.Time) (Eligibility, error)
	Redeem(ctx context.Context, tx *gorm.DB, code string, userID, orderID uuid.UUID) error
}

type service struct {
	repo CouponRepository
}

// NewService builds a coupon service backed by the provided repository.
func NewService(repo CouponRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

// NormalizeCode uppercases and trims a user-entered coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetCoupon loads a coupon by code, case-insensitively.
func (s *service) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return coupon, nil
}

// CheckEligibility evaluates every constraint on the coupon for the given
// cart context. The first failing constraint wins; checks are ordered from
// cheapest to the one requiring a redemption count query.
func (s *service) CheckEligibility(ctx context.Context, coupon *models.Coupon, userID, storeID uuid.UUID, subtotalCents int64, now time.Time) (Eligibility, error) {
	if coupon == nil {
		return Eligibility{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon is required")
	}
	if !coupon.Active {
		return Eligibility{Reason: ReasonInactive}, nil
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return Eligibility{Reason: ReasonNotStarted}, nil
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return Eligibility{Reason: ReasonExpired}, nil
	}
	if len(coupon.StoreIDs) > 0 && !containsID(coupon.StoreIDs, storeID) {
		return Eligibility{Reason: ReasonStoreNotEligible}, nil
	}
	if subtotalCents < coupon.MinSubtotalCents {
		return Eligibility{Reason: ReasonSubtotalTooLow}, nil
	}
	if coupon.MaxUses > 0 && coupon.UseCount >= coupon.MaxUses {
		return Eligibility{Reason: ReasonGlobalLimit}, nil
	}
	if coupon.MaxUsesPerUser > 0 {
		used, err := s.repo.CountRedemptionsByUser(ctx, coupon.ID, userID)
		if err != nil {
			return Eligibility{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon redemptions")
		}
		if used >= int64(coupon.MaxUsesPerUser) {
			return Eligibility{Reason: ReasonUserLimit}, nil
		}
	}
	return Eligibility{Eligible: true}, nil
}

// Redeem counts one use of the coupon for the given order, atomically with
// whatever else runs in tx. The unique order id on redemptions makes a
// double submission a no-op, the conditional usage update keeps concurrent
// checkouts from exceeding the global cap, and the per-user count is
// re-checked after the insert so quote-time eligibility cannot go stale
// between quoting and placement.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, code string, userID, orderID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction required for redemption")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required for redemption")
	}

	repo := s.repo.WithTx(tx)

	coupon, err := repo.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	redemption := &models.CouponRedemption{
		ID:       uuid.New(),
		CouponID: coupon.ID,
		UserID:   userID,
		OrderID:  orderID,
	}
	if err := repo.CreateRedemption(ctx, redemption); err != nil {
		if db.IsUniqueViolation(err, "") {
			// already counted for this order
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon redemption")
	}

	if coupon.MaxUsesPerUser > 0 {
		// The count includes the row just inserted.
		used, err := repo.CountRedemptionsByUser(ctx, coupon.ID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon redemptions")
		}
		if used > int64(coupon.MaxUsesPerUser) {
			return pkgerrors.New(pkgerrors.CodeConflict, "coupon user limit reached")
		}
	}

	ok, err := repo.IncrementUsage(ctx, coupon.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment coupon usage")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
	}
	return nil
}

func containsID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
