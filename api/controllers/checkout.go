package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/api/responses"
	"github.com/snackshack/storefront-backend/api/validators"
	"github.com/snackshack/storefront-backend/internal/checkout"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

type checkoutItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type checkoutRequest struct {
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerEmail string                `json:"customer_email" validate:"required,email"`
	DiscountCode  string                `json:"discount_code" validate:"omitempty,max=64"`
}

// InitiateCheckout creates a hosted payment session for a storefront cart.
func InitiateCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkout.InitiateInput{
			CustomerEmail: body.CustomerEmail,
			DiscountCode:  body.DiscountCode,
			Items:         make([]checkout.CartItem, 0, len(body.Items)),
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, checkout.CartItem{
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			})
		}

		result, err := svc.Initiate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
