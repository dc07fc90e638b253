package models

import (
	"time"

	"github.com/google/uuid"
)

// TaxRule applies a named rate to the post-discount subtotal.
type TaxRule struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	Label     string    `gorm:"column:label;not null"`
	RateBps   int       `gorm:"column:rate_bps;not null"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
