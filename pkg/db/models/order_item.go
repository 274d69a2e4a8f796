package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is owned by exactly one order and immutable after creation.
// PriceCents is the price at time of sale, never re-read from the variant.
type OrderItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	VariantID   uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName string    `gorm:"column:product_name;not null"`
	VariantName string    `gorm:"column:variant_name;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	PriceCents  int       `gorm:"column:price_cents;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
