package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/api/responses"
	"github.com/snackshack/storefront-backend/api/validators"
	"github.com/snackshack/storefront-backend/internal/catalog"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

// ListLowStock returns variants at or below their low-stock threshold.
func ListLowStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variants, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, variants)
	}
}

type setInventoryRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// SetVariantInventory overwrites a variant's on-hand count.
func SetVariantInventory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			err := pkgerrors.New(pkgerrors.CodeValidation, "invalid variant id")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setInventoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.SetInventory(r.Context(), id, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, variant)
	}
}
