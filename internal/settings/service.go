package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

// Service exposes the pricing configuration lookups the cart path needs.
type Service interface {
	GetZone(ctx context.Context, zoneID, storeID uuid.UUID) (*models.DeliveryZone, error)
	GetTaxRules(ctx context.Context, storeID uuid.UUID) ([]models.TaxRule, error)
	GetFeeRules(ctx context.Context, storeID uuid.UUID) ([]models.FeeRule, error)
}

type service struct {
	repo StoreSettingsRepository
}

// NewService builds a settings service backed by the provided repository.
func NewService(repo StoreSettingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// GetZone loads a delivery zone and verifies it belongs to the store.
func (s *service) GetZone(ctx context.Context, zoneID, storeID uuid.UUID) (*models.DeliveryZone, error) {
	if zoneID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone id is required")
	}
	zone, err := s.repo.FindZone(ctx, zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery zone")
	}
	if zone.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone does not belong to store")
	}
	if !zone.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone is not active")
	}
	return zone, nil
}

// GetTaxRules returns the store's active tax rules.
func (s *service) GetTaxRules(ctx context.Context, storeID uuid.UUID) ([]models.TaxRule, error) {
	rules, err := s.repo.ListTaxRules(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tax rules")
	}
	return rules, nil
}

// GetFeeRules returns the store's active fee rules.
func (s *service) GetFeeRules(ctx context.Context, storeID uuid.UUID) ([]models.FeeRule, error) {
	rules, err := s.repo.ListFeeRules(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fee rules")
	}
	return rules, nil
}
