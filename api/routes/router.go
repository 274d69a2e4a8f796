package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snackshack/storefront-backend/api/controllers"
	webhookcontrollers "github.com/snackshack/storefront-backend/api/controllers/webhooks"
	"github.com/snackshack/storefront-backend/api/middleware"
	"github.com/snackshack/storefront-backend/internal/adminauth"
	"github.com/snackshack/storefront-backend/internal/catalog"
	checkoutsvc "github.com/snackshack/storefront-backend/internal/checkout"
	"github.com/snackshack/storefront-backend/internal/discounts"
	"github.com/snackshack/storefront-backend/internal/orders"
	stripewebhook "github.com/snackshack/storefront-backend/internal/webhooks/stripe"
	"github.com/snackshack/storefront-backend/pkg/config"
	"github.com/snackshack/storefront-backend/pkg/db"
	"github.com/snackshack/storefront-backend/pkg/logger"
	"github.com/snackshack/storefront-backend/pkg/redis"
	"github.com/snackshack/storefront-backend/pkg/stripe"
)

// Deps carries everything the HTTP layer needs wired in.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         db.Pinger
	RedisClient      *redis.Client
	StripeClient     *stripe.Client
	CatalogService   catalog.Service
	CheckoutService  checkoutsvc.Service
	DiscountsService discounts.Service
	OrdersService    orders.Service
	AuthService      adminauth.Service
	WebhookService   *stripewebhook.Service
	WebhookGuard     *stripewebhook.IdempotencyGuard
	MetricsRegistry  *prometheus.Registry
}

// NewRouter builds the full route tree.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisClient))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.WebhookService, deps.StripeClient, deps.WebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.CatalogService, logg))
			r.Get("/{slug}", controllers.GetProduct(deps.CatalogService, logg))
		})
		r.Post("/checkout", controllers.InitiateCheckout(deps.CheckoutService, logg))
		r.Post("/discounts/validate", controllers.ValidateDiscount(deps.DiscountsService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.OrdersService, logg))
				r.Get("/stats", controllers.OrderStats(deps.OrdersService, logg))
				r.Get("/{id}", controllers.GetOrder(deps.OrdersService, logg))
				r.Patch("/{id}/status", controllers.UpdateOrderStatus(deps.OrdersService, logg))
				r.Post("/{id}/tracking", controllers.AddOrderTracking(deps.OrdersService, logg))
				r.Post("/{id}/cancel", controllers.CancelOrder(deps.OrdersService, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/low-stock", controllers.ListLowStock(deps.CatalogService, logg))
			})
			r.Patch("/variants/{id}/inventory", controllers.SetVariantInventory(deps.CatalogService, logg))

			r.Route("/discounts", func(r chi.Router) {
				r.Get("/", controllers.ListDiscounts(deps.DiscountsService, logg))
				r.Post("/", controllers.CreateDiscount(deps.DiscountsService, logg))
			})
		})
	})

	return r
}
