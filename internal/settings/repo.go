package settings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
)

// StoreSettingsRepository defines the persistence surface for per-store
// pricing configuration.
type StoreSettingsRepository interface {
	FindZone(ctx context.Context, zoneID uuid.UUID) (*models.DeliveryZone, error)
	ListTaxRules(ctx context.Context, storeID uuid.UUID) ([]models.TaxRule, error)
	ListFeeRules(ctx context.Context, storeID uuid.UUID) ([]models.FeeRule, error)
}

// Repository exposes store settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindZone loads a delivery zone by id.
func (r *Repository) FindZone(ctx context.Context, zoneID uuid.UUID) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	err := r.db.WithContext(ctx).
		Where("id = ?", zoneID).
		First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// ListTaxRules returns the active tax rules for a store in display order.
func (r *Repository) ListTaxRules(ctx context.Context, storeID uuid.UUID) ([]models.TaxRule, error) {
	var rules []models.TaxRule
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND active = ?", storeID, true).
		Order("position ASC, label ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// ListFeeRules returns the active fee rules for a store in display order.
func (r *Repository) ListFeeRules(ctx context.Context, storeID uuid.UUID) ([]models.FeeRule, error) {
	var rules []models.FeeRule
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND active = ?", storeID, true).
		Order("position ASC, label ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
