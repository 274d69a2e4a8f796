package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is the purchasable SKU-level configuration of a product.
// Inventory is the only mutable quantity in the order pipeline and is always
// adjusted with atomic column expressions, never read-modify-write.
type ProductVariant struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product           *Product  `gorm:"foreignKey:ProductID"`
	Name              string    `gorm:"column:name;not null"`
	SKU               string    `gorm:"column:sku;not null;uniqueIndex"`
	PriceCents        int       `gorm:"column:price_cents;not null"`
	CompareAtCents    *int      `gorm:"column:compare_at_cents"`
	Inventory         int       `gorm:"column:inventory;not null;default:0"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null;default:5"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
