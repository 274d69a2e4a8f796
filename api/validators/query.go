package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter, clamping to [min, max].
func ParseQueryInt(r *http.Request, name string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" must be an integer")
	}
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	return value, nil
}
