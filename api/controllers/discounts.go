package controllers

import (
	"net/http"
	"time"

	"github.com/snackshack/storefront-backend/api/responses"
	"github.com/snackshack/storefront-backend/api/validators"
	"github.com/snackshack/storefront-backend/internal/discounts"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/enums"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

type validateDiscountRequest struct {
	Code          string `json:"code" validate:"required,max=64"`
	SubtotalCents int    `json:"subtotal_cents" validate:"required,gt=0"`
}

// ValidateDiscount previews a discount code against a cart subtotal.
func ValidateDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body validateDiscountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Validate(r.Context(), body.Code, body.SubtotalCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListDiscounts returns every discount code for the back office.
func ListDiscounts(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		codes, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discounts.ToDiscountDTOs(codes))
	}
}

type createDiscountRequest struct {
	Code             string     `json:"code" validate:"required,max=64"`
	Type             string     `json:"type" validate:"required"`
	Value            int        `json:"value" validate:"gte=0"`
	MinPurchaseCents *int       `json:"min_purchase_cents" validate:"omitempty,gte=0"`
	MaxUses          *int       `json:"max_uses" validate:"omitempty,gt=0"`
	ExpiresAt        *time.Time `json:"expires_at"`
}

// CreateDiscount registers a new discount code.
func CreateDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createDiscountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), discounts.CreateInput{
			Code:             body.Code,
			Type:             enums.DiscountType(body.Type),
			Value:            body.Value,
			MinPurchaseCents: body.MinPurchaseCents,
			MaxUses:          body.MaxUses,
			ExpiresAt:        body.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto := discounts.ToDiscountDTO(created)
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
