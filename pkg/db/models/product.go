package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a storefront listing; purchasable configurations live on its
// variants.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Name        string           `gorm:"column:name;not null"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex"`
	Description string           `gorm:"column:description;not null"`
	Images      pq.StringArray   `gorm:"column:images;type:text[]"`
	Featured    bool             `gorm:"column:featured;not null;default:false"`
	Active      bool             `gorm:"column:active;not null;default:true"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
