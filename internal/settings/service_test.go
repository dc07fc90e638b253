package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

type stubSettingsRepo struct {
	zone    *models.DeliveryZone
	zoneErr error
}

func (s *stubSettingsRepo) FindZone(_ context.Context, _ uuid.UUID) (*models.DeliveryZone, error) {
	if s.zoneErr != nil {
		return nil, s.zoneErr
	}
	return s.zone, nil
}

func (s *stubSettingsRepo) ListTaxRules(_ context.Context, _ uuid.UUID) ([]models.TaxRule, error) {
	return nil, nil
}

func (s *stubSettingsRepo) ListFeeRules(_ context.Context, _ uuid.UUID) ([]models.FeeRule, error) {
	return nil, nil
}

func TestGetZoneValidatesOwnershipAndState(t *testing.T) {
	t.Parallel()

	storeID := uuid.New()
	zone := &models.DeliveryZone{ID: uuid.New(), StoreID: storeID, Name: "Downtown", Active: true}

	svc, err := NewService(&stubSettingsRepo{zone: zone})
	require.NoError(t, err)

	got, err := svc.GetZone(context.Background(), zone.ID, storeID)
	require.NoError(t, err)
	require.Equal(t, zone.Name, got.Name)

	_, err = svc.GetZone(context.Background(), zone.ID, uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for foreign store, got %v", err)
	}

	zone.Active = false
	_, err = svc.GetZone(context.Background(), zone.ID, storeID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for inactive zone, got %v", err)
	}
}

func TestGetZoneNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubSettingsRepo{zoneErr: gorm.ErrRecordNotFound})
	require.NoError(t, err)

	_, err = svc.GetZone(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown zone, got %v", err)
	}
}
