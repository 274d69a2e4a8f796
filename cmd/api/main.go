package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/snackshack/storefront-backend/api/routes"
	"github.com/snackshack/storefront-backend/internal/adminauth"
	"github.com/snackshack/storefront-backend/internal/catalog"
	checkoutsvc "github.com/snackshack/storefront-backend/internal/checkout"
	"github.com/snackshack/storefront-backend/internal/discounts"
	"github.com/snackshack/storefront-backend/internal/orders"
	stripewebhook "github.com/snackshack/storefront-backend/internal/webhooks/stripe"
	"github.com/snackshack/storefront-backend/pkg/config"
	"github.com/snackshack/storefront-backend/pkg/db"
	"github.com/snackshack/storefront-backend/pkg/logger"
	"github.com/snackshack/storefront-backend/pkg/metrics"
	"github.com/snackshack/storefront-backend/pkg/migrate"
	"github.com/snackshack/storefront-backend/pkg/redis"
	"github.com/snackshack/storefront-backend/pkg/stripe"
)

const webhookIdempotencyScope = "stripe-webhook"

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	discountRepo := discounts.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	discountsService, err := discounts.NewService(discountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create discounts service", err)
		os.Exit(1)
	}

	sessionClient := checkoutsvc.NewStripeClient(stripeClient)

	checkoutService, err := checkoutsvc.NewService(
		sessionClient,
		catalogRepo,
		discountsService,
		cfg.Checkout,
		cfg.Shipping,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(dbClient, orderRepo, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	authService, err := adminauth.NewService(dbClient.DB(), cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		OrderRepo:         orderRepo,
		CatalogRepo:       catalogRepo,
		DiscountRepo:      discountRepo,
		SessionClient:     sessionClient,
		TransactionRunner: dbClient,
		OrdersCfg:         cfg.Orders,
		Logger:            logg,
		Metrics:           webhookMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Eventing.WebhookIdempotencyTTL, webhookIdempotencyScope)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			DBPinger:         dbClient,
			RedisClient:      redisClient,
			StripeClient:     stripeClient,
			CatalogService:   catalogService,
			CheckoutService:  checkoutService,
			DiscountsService: discountsService,
			OrdersService:    ordersService,
			AuthService:      authService,
			WebhookService:   webhookService,
			WebhookGuard:     webhookGuard,
			MetricsRegistry:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
