package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/pkg/types"
)

// MenuItem stores one orderable item with its variants and addon groups
// inlined as jsonb, so a single fetch yields a fully resolved snapshot.
type MenuItem struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID        uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index"`
	Name           string             `gorm:"column:name;not null"`
	Description    *string            `gorm:"column:description"`
	BasePriceCents int64              `gorm:"column:base_price_cents;not null"`
	Variants       []types.Variant    `gorm:"column:variants;type:jsonb;serializer:json"`
	AddonGroups    []types.AddonGroup `gorm:"column:addon_groups;type:jsonb;serializer:json"`
	Available      bool               `gorm:"column:available;not null;default:true"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
