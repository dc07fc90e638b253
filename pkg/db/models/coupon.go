package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// Coupon is a code-activated discount rule. Value is interpreted per type:
// percent coupons carry a percentage (10 = 10%), fixed coupons carry
// currency units (2.99 = $2.99). UseCount is only ever advanced through the
// conditional-update redemption path.
type Coupon struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string             `gorm:"column:code;not null;uniqueIndex"`
	Type             enums.DiscountType `gorm:"column:type;type:discount_type;not null"`
	Value            decimal.Decimal    `gorm:"column:value;type:numeric(12,4);not null"`
	MinSubtotalCents int64              `gorm:"column:min_subtotal_cents;not null;default:0"`
	MaxDiscountCents *int64             `gorm:"column:max_discount_cents"`
	StartsAt         *time.Time         `gorm:"column:starts_at"`
	EndsAt           *time.Time         `gorm:"column:ends_at"`
	MaxUses          int                `gorm:"column:max_uses;not null;default:0"`
	MaxUsesPerUser   int                `gorm:"column:max_uses_per_user;not null;default:0"`
	UseCount         int                `gorm:"column:use_count;not null;default:0"`
	Active           bool               `gorm:"column:active;not null;default:true"`
	StoreIDs         []uuid.UUID        `gorm:"column:store_ids;type:jsonb;serializer:json"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
