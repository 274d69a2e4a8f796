package controllers

import (
	"net/http"

	"github.com/snackshack/storefront-backend/api/responses"
	"github.com/snackshack/storefront-backend/api/validators"
	"github.com/snackshack/storefront-backend/internal/adminauth"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin wires the back-office login endpoint into the HTTP layer.
func AdminLogin(svc adminauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
