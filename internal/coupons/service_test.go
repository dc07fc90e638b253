package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
)

type stubCouponRepo struct {
	coupon    *models.Coupon
	findErr   error
	userCount int64
}

func (s *stubCouponRepo) WithTx(_ *gorm.DB) CouponRepository { return s }

func (s *stubCouponRepo) FindByCode(_ context.Context, _ string) (*models.Coupon, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.coupon, nil
}

func (s *stubCouponRepo) CountRedemptionsByUser(_ context.Context, _, _ uuid.UUID) (int64, error) {
	return s.userCount, nil
}

func (s *stubCouponRepo) IncrementUsage(_ context.Context, _ uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubCouponRepo) CreateRedemption(_ context.Context, _ *models.CouponRedemption) error {
	return nil
}

func baseCoupon() *models.Coupon {
	return &models.Coupon{
		ID:               uuid.New(),
		Code:             "WELCOME10",
		Type:             enums.DiscountTypePercent,
		Value:            decimal.NewFromInt(10),
		MinSubtotalCents: 2500,
		Active:           true,
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode("  welcome10 "); got != "WELCOME10" {
		t.Fatalf("NormalizeCode = %q, want WELCOME10", got)
	}
}

func TestCheckEligibilityReasons(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	storeID := uuid.New()

	newSvc := func(repo *stubCouponRepo) Service {
		svc, err := NewService(repo)
		require.NoError(t, err)
		return svc
	}

	t.Run("eligible", func(t *testing.T) {
		svc := newSvc(&stubCouponRepo{})
		res, err := svc.CheckEligibility(context.Background(), baseCoupon(), userID, storeID, 5000, now)
		require.NoError(t, err)
		require.True(t, res.Eligible)
		require.Empty(t, res.Reason)
	})

	t.Run("inactive", func(t *testing.T) {
		coupon := baseCoupon()
		coupon.Active = false
		svc := newSvc(&stubCouponRepo{})
		res, err := svc.CheckEligibility(context.Background(), coupon, userID, storeID, 5000, now)
		require.NoError(t, err)
		require.False(t, res.Eligible)
		require.Equal(t, ReasonInactive, res.Reason)
	})

	t.Run("not started", func(t *testing.T) {
		coupon := baseCoupon()
		later := now.Add(time.Hour)
		coupon.StartsAt = &later
		svc := newSvc(&stubCouponRepo{})
		res, err := svc.CheckEligibility(context.Background(), coupon, userID, storeID, 5000, now)
		require.NoError(t, err)
		require.Equal(t, ReasonNotStarted, res.Reason)
	})

	t.Run("expired", func(t *testing.T) {
		coupon := baseCoupon()
		earlier := now.Add(-time.Hour)
		coupon.EndsAt = &earlier
		svc := newSvc(&stubCouponRepo{})
		res, err := svc.CheckEligibility(context.Background(), coupon, userID, storeID, 5000, now)
		require.NoError(t, err)
		require.Equal(t, ReasonExpired, res.Reason)
	})

	t.Run("wrong store", func(t *testing.T) {
		coupon := baseCoupon()
		coupon.StoreIDs = []uuid.UUID{uuid.New()}
		svc := newSvc(&stubCouponRepo{})
		res, err := svc.CheckEligibility(context.Background(), coupon, userID, storeID, 5000, now)
		require.NoError(t, err)
		require.Equal(t, ReasonStoreNotEligible, res.Reason)
	})

	t.Run("subtotal below minimum", func(t *testing.T) {
		svc := newSvc(&stubCouponRepo{})
		res, err := svc.CheckEligibility(context.Background(), baseCoupon(), userID, storeID, 2000, now)
		require.NoError(t, err)
		require.Equal(t, ReasonSubtotalTooLow, res.Reason)
	})

	t.Run("global limit reached", func(t *testing.T) {
		coupon := baseCoupon()
		coupon.MaxUses = 3
		coupon.UseCount = 3
		svc := newSvc(&stubCouponRepo{})
		res, err := svc.CheckEligibility(context.Background(), coupon, userID, storeID, 5000, now)
		require.NoError(t, err)
		require.Equal(t, ReasonGlobalLimit, res.Reason)
	})

	t.Run("user limit reached", func(t *testing.T) {
		coupon := baseCoupon()
		coupon.MaxUsesPerUser = 1
		svc := newSvc(&stubCouponRepo{userCount: 1})
		res, err := svc.CheckEligibility(context.Background(), coupon, userID, storeID, 5000, now)
		require.NoError(t, err)
		require.Equal(t, ReasonUserLimit, res.Reason)
	})
}
