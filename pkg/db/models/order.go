package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/pkg/enums"
	"github.com/snackshack/storefront-backend/pkg/types"
)

// Order is materialized exactly once per Stripe payment intent; the unique
// constraint on stripe_payment_id is the idempotency anchor for webhook
// redelivery.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string            `gorm:"column:order_number;not null;uniqueIndex"`
	StripePaymentID string            `gorm:"column:stripe_payment_id;not null;uniqueIndex"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	Email           string            `gorm:"column:email;not null"`
	Phone           *string           `gorm:"column:phone"`
	ShippingAddress types.Address     `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	SubtotalCents   int               `gorm:"column:subtotal_cents;not null"`
	ShippingCents   int               `gorm:"column:shipping_cents;not null;default:0"`
	TaxCents        int               `gorm:"column:tax_cents;not null;default:0"`
	DiscountCents   int               `gorm:"column:discount_cents;not null;default:0"`
	TotalCents      int               `gorm:"column:total_cents;not null"`
	DiscountCodeID  *uuid.UUID        `gorm:"column:discount_code_id;type:uuid"`
	TrackingNumber  *string           `gorm:"column:tracking_number"`
	ShippedAt       *time.Time        `gorm:"column:shipped_at"`
	DeliveredAt     *time.Time        `gorm:"column:delivered_at"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
