package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryZone carries the per-zone delivery fee and minimum order.
type DeliveryZone struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	FeeCents      int64     `gorm:"column:fee_cents;not null;default:0"`
	MinOrderCents int64     `gorm:"column:min_order_cents;not null;default:0"`
	Active        bool      `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
