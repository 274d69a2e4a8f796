package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/snackshack/storefront-backend/api/responses"
	"github.com/snackshack/storefront-backend/pkg/config"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

const envHeader = "X-SnackShack-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the datastores and reports every failure at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var probeErr error
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				probeErr = multierr.Append(probeErr, fmt.Errorf("db: %w", err))
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				probeErr = multierr.Append(probeErr, fmt.Errorf("redis: %w", err))
			}
		}

		if probeErr != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, probeErr, "readiness probe failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
