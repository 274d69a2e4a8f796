package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/pkg/enums"
)

// DiscountCode is a customer-entered code with capped, tracked usage.
// Codes are stored canonicalized (uppercase); used_count is only ever
// incremented atomically inside the order-materialization transaction.
type DiscountCode struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Code             string             `gorm:"column:code;not null;uniqueIndex"`
	Type             enums.DiscountType `gorm:"column:type;type:text;not null"`
	Value            int                `gorm:"column:value;not null"`
	MinPurchaseCents *int               `gorm:"column:min_purchase_cents"`
	MaxUses          *int               `gorm:"column:max_uses"`
	UsedCount        int                `gorm:"column:used_count;not null;default:0"`
	Active           bool               `gorm:"column:active;not null;default:true"`
	ExpiresAt        *time.Time         `gorm:"column:expires_at"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
