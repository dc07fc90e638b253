package coupons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
)

// CouponRepository defines the persistence surface required by the coupon service.
type CouponRepository interface {
	WithTx(tx *gorm.DB) CouponRepository
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	CountRedemptionsByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	IncrementUsage(ctx context.Context, couponID uuid.UUID) (bool, error)
	CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error
}

// Repository exposes coupon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByCode loads a coupon by its normalized code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// CountRedemptionsByUser returns how many times the user has redeemed the coupon.
func (r *Repository) CountRedemptionsByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementUsage advances the usage counter with a limit check in a single
// conditional update, so concurrent checkouts cannot oversell the coupon.
// Returns false when the cap is already reached.
func (r *Repository) IncrementUsage(ctx context.Context, couponID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (max_uses = 0 OR use_count < max_uses)", couponID).
		UpdateColumn("use_count", gorm.Expr("use_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CreateRedemption inserts the per-order redemption record.
func (r *Repository) CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}
