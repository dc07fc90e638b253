package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
)

// ItemRepository defines the persistence surface required by the catalog service.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.MenuItem, error)
}

// Repository exposes menu item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a single menu item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByStore returns all menu items for a store, available or not.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
