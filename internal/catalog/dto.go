package catalog

import (
	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// ItemSnapshot is a fully resolved, immutable view of a menu item taken for
// one pricing computation. Variants and addon groups are inlined so the
// pricer never goes back to the catalog mid-computation.
type ItemSnapshot struct {
	ID             uuid.UUID
	StoreID        uuid.UUID
	Name           string
	BasePriceCents int64
	Variants       []types.Variant
	AddonGroups    []types.AddonGroup
	Available      bool
}

// DefaultVariant returns the variant flagged default, falling back to the
// first in list order. Multiple defaults resolve to the earliest one.
func (s *ItemSnapshot) DefaultVariant() *types.Variant {
	if len(s.Variants) == 0 {
		return nil
	}
	for i := range s.Variants {
		if s.Variants[i].IsDefault {
			return &s.Variants[i]
		}
	}
	return &s.Variants[0]
}

// FindVariant looks up a variant by id.
func (s *ItemSnapshot) FindVariant(id string) *types.Variant {
	for i := range s.Variants {
		if s.Variants[i].ID == id {
			return &s.Variants[i]
		}
	}
	return nil
}

// FindAddon locates an addon by id along with its owning group.
func (s *ItemSnapshot) FindAddon(id string) (*types.AddonGroup, *types.Addon) {
	for g := range s.AddonGroups {
		group := &s.AddonGroups[g]
		for a := range group.Addons {
			if group.Addons[a].ID == id {
				return group, &group.Addons[a]
			}
		}
	}
	return nil, nil
}

func snapshotFromModel(item *models.MenuItem) *ItemSnapshot {
	snap := &ItemSnapshot{
		ID:             item.ID,
		StoreID:        item.StoreID,
		Name:           item.Name,
		BasePriceCents: item.BasePriceCents,
		Available:      item.Available,
	}
	snap.Variants = append(snap.Variants, item.Variants...)
	for _, group := range item.AddonGroups {
		copied := group
		copied.Addons = append([]types.Addon(nil), group.Addons...)
		snap.AddonGroups = append(snap.AddonGroups, copied)
	}
	return snap
}
