package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// FeeRule adds a service fee to every summary. Flat fees use AmountCents,
// percent fees use RateBps against the gross subtotal.
type FeeRule struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID     `gorm:"column:store_id;type:uuid;not null;index"`
	Label       string        `gorm:"column:label;not null"`
	Type        enums.FeeType `gorm:"column:type;type:fee_type;not null"`
	AmountCents int64         `gorm:"column:amount_cents;not null;default:0"`
	RateBps     int           `gorm:"column:rate_bps;not null;default:0"`
	Active      bool          `gorm:"column:active;not null;default:true"`
	Position    int           `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
