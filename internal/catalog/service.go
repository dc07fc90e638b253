package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

// Service exposes catalog lookups as immutable snapshots.
type Service interface {
	GetItem(ctx context.Context, id uuid.UUID) (*ItemSnapshot, error)
}

type service struct {
	repo ItemRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo ItemRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{repo: repo}, nil
}

// GetItem returns a fully resolved snapshot of the menu item. A missing item
// surfaces as a validation error: the only way callers hold an unknown id is
// a stale cart reference.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemSnapshot, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item not found").WithDetails(map[string]any{
				"item_id": id,
			})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return snapshotFromModel(item), nil
}
