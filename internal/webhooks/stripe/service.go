package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/internal/catalog"
	"github.com/snackshack/storefront-backend/internal/checkout"
	"github.com/snackshack/storefront-backend/internal/discounts"
	"github.com/snackshack/storefront-backend/internal/orders"
	"github.com/snackshack/storefront-backend/pkg/config"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
	"github.com/snackshack/storefront-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	OrderRepo         orders.Repository
	CatalogRepo       catalog.Repository
	DiscountRepo      discounts.Repository
	SessionClient     checkout.StripeSessionClient
	TransactionRunner txRunner
	OrdersCfg         config.OrdersConfig
	Logger            *logger.Logger
	Metrics           *metrics.WebhookMetrics
}

// Service turns verified Stripe events into order-side effects. Every event
// lands on exactly one of three outcomes: processed (order materialized),
// skipped (duplicate, unhandled type, or a data-quality dead end that a
// redelivery cannot fix), or failed (transient, worth a provider retry).
type Service struct {
	orderRepo     orders.Repository
	catalogRepo   catalog.Repository
	discountRepo  discounts.Repository
	sessionClient checkout.StripeSessionClient
	txRunner      txRunner
	ordersCfg     config.OrdersConfig
	log           *logger.Logger
	metrics       *metrics.WebhookMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repo required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repo required")
	}
	if params.DiscountRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "discount repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewWebhookMetrics(nil)
	}
	return &Service{
		orderRepo:     params.OrderRepo,
		catalogRepo:   params.CatalogRepo,
		discountRepo:  params.DiscountRepo,
		sessionClient: params.SessionClient,
		txRunner:      params.TransactionRunner,
		ordersCfg:     params.OrdersCfg,
		log:           params.Logger,
		metrics:       params.Metrics,
	}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	eventType := string(event.Type)
	ctx = s.log.WithEventID(ctx, event.ID)

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		return s.handleCheckoutCompleted(ctx, eventType, &session)
	case stripe.EventTypePaymentIntentSucceeded:
		s.log.Info(ctx, fmt.Sprintf("payment intent %s succeeded", event.GetObjectValue("id")))
		s.metrics.IncSkipped(eventType)
		return nil
	case stripe.EventTypePaymentIntentPaymentFailed:
		s.log.Warn(ctx, fmt.Sprintf("payment intent %s failed", event.GetObjectValue("id")))
		s.metrics.IncSkipped(eventType)
		return nil
	default:
		s.log.Info(ctx, fmt.Sprintf("unhandled event type %s", eventType))
		s.metrics.IncSkipped(eventType)
		return nil
	}
}
