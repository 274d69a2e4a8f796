package discounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
)

// DiscountDTO is the back-office view of a discount code.
type DiscountDTO struct {
	ID               uuid.UUID          `json:"id"`
	Code             string             `json:"code"`
	Type             enums.DiscountType `json:"type"`
	Value            int                `json:"value"`
	MinPurchaseCents *int               `json:"min_purchase_cents,omitempty"`
	MaxUses          *int               `json:"max_uses,omitempty"`
	UsedCount        int                `json:"used_count"`
	Active           bool               `json:"active"`
	ExpiresAt        *time.Time         `json:"expires_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ToDiscountDTO maps a stored code onto its API shape.
func ToDiscountDTO(code *models.DiscountCode) DiscountDTO {
	return DiscountDTO{
		ID:               code.ID,
		Code:             code.Code,
		Type:             code.Type,
		Value:            code.Value,
		MinPurchaseCents: code.MinPurchaseCents,
		MaxUses:          code.MaxUses,
		UsedCount:        code.UsedCount,
		Active:           code.Active,
		ExpiresAt:        code.ExpiresAt,
		CreatedAt:        code.CreatedAt,
	}
}

// ToDiscountDTOs maps a list of stored codes.
func ToDiscountDTOs(codes []models.DiscountCode) []DiscountDTO {
	dtos := make([]DiscountDTO, 0, len(codes))
	for i := range codes {
		dtos = append(dtos, ToDiscountDTO(&codes[i]))
	}
	return dtos
}
