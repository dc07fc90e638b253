package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// Order is the immutable snapshot of a priced cart taken at checkout.
// Summary is frozen jsonb; status transitions are the only writes after
// creation and never touch the pricing breakdown.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID         uuid.UUID            `gorm:"column:store_id;type:uuid;not null;index"`
	Status          enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'placed'"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;type:delivery_method;not null"`
	DeliveryAddress *types.Address       `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	Summary         types.CartSummary    `gorm:"column:summary;type:jsonb;serializer:json;not null"`
	CouponCode      *string              `gorm:"column:coupon_code"`
	PlacedAt        time.Time            `gorm:"column:placed_at;not null"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
