package catalog

import (
	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/pkg/db/models"
)

type ProductDTO struct {
	ID          uuid.UUID    `json:"id"`
	CategoryID  uuid.UUID    `json:"category_id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Images      []string     `json:"images"`
	Featured    bool         `json:"featured"`
	Variants    []VariantDTO `json:"variants"`
}

type VariantDTO struct {
	ID                uuid.UUID `json:"id"`
	ProductID         uuid.UUID `json:"product_id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	PriceCents        int       `json:"price_cents"`
	CompareAtCents    *int      `json:"compare_at_cents,omitempty"`
	Inventory         int       `json:"inventory"`
	LowStockThreshold int       `json:"low_stock_threshold"`
}

func newProductDTO(product *models.Product) ProductDTO {
	variants := make([]VariantDTO, 0, len(product.Variants))
	for i := range product.Variants {
		variants = append(variants, newVariantDTO(&product.Variants[i]))
	}
	return ProductDTO{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Images:      product.Images,
		Featured:    product.Featured,
		Variants:    variants,
	}
}

func newVariantDTO(variant *models.ProductVariant) VariantDTO {
	return VariantDTO{
		ID:                variant.ID,
		ProductID:         variant.ProductID,
		Name:              variant.Name,
		SKU:               variant.SKU,
		PriceCents:        variant.PriceCents,
		CompareAtCents:    variant.CompareAtCents,
		Inventory:         variant.Inventory,
		LowStockThreshold: variant.LowStockThreshold,
	}
}
