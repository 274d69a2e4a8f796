package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/snackshack/storefront-backend/internal/catalog"
	"github.com/snackshack/storefront-backend/internal/discounts"
	"github.com/snackshack/storefront-backend/pkg/config"
	"github.com/snackshack/storefront-backend/pkg/db/models"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

// MetadataItemsKey is the session metadata key carrying the cart contents.
const MetadataItemsKey = "items"

// MetadataDiscountKey is the session metadata key carrying the applied code.
const MetadataDiscountKey = "discountCode"

// CartItem is one storefront cart entry.
type CartItem struct {
	VariantID uuid.UUID `json:"variantId"`
	Quantity  int       `json:"quantity"`
}

// InitiateInput describes a checkout request from the storefront.
type InitiateInput struct {
	Items         []CartItem
	CustomerEmail string
	DiscountCode  string
}

// SessionResult points the storefront at the hosted payment page.
type SessionResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Service creates hosted checkout sessions for storefront carts.
type Service interface {
	Initiate(ctx context.Context, input InitiateInput) (*SessionResult, error)
}

type service struct {
	stripeClient StripeSessionClient
	catalog      catalog.Repository
	discounts    discounts.Service
	checkoutCfg  config.CheckoutConfig
	shippingCfg  config.ShippingConfig
	log          *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	stripeClient StripeSessionClient,
	catalogRepo catalog.Repository,
	discountSvc discounts.Service,
	checkoutCfg config.CheckoutConfig,
	shippingCfg config.ShippingConfig,
	log *logger.Logger,
) (Service, error) {
	if stripeClient == nil || catalogRepo == nil || discountSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service dependencies required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		stripeClient: stripeClient,
		catalog:      catalogRepo,
		discounts:    discountSvc,
		checkoutCfg:  checkoutCfg,
		shippingCfg:  shippingCfg,
		log:          log,
	}, nil
}

// Initiate prices the cart from current variant data, quotes shipping, and
// opens a hosted checkout session. The cart contents ride along as session
// metadata so order materialization never trusts client-side prices.
func (s *service) Initiate(ctx context.Context, input InitiateInput) (*SessionResult, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.VariantID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item variant id required")
		}
	}

	variants, err := s.resolveVariants(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	subtotal := 0
	for _, item := range input.Items {
		subtotal += variants[item.VariantID].PriceCents * item.Quantity
	}

	var discount *discounts.ValidationResult
	if input.DiscountCode != "" {
		discount, err = s.discounts.Validate(ctx, input.DiscountCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	params, err := s.buildSessionParams(ctx, input, variants, subtotal, discount)
	if err != nil {
		return nil, err
	}

	sess, err := s.stripeClient.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating checkout session")
	}

	s.log.Info(s.log.WithField(ctx, "session_id", sess.ID), "checkout session created")
	return &SessionResult{SessionID: sess.ID, URL: sess.URL}, nil
}

func (s *service) resolveVariants(ctx context.Context, items []CartItem) (map[uuid.UUID]*models.ProductVariant, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}

	found, err := s.catalog.FindVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving cart variants")
	}

	byID := make(map[uuid.UUID]*models.ProductVariant, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for _, item := range items {
		if _, ok := byID[item.VariantID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart references an unknown product variant").
				WithDetails(map[string]any{"variant_id": item.VariantID})
		}
	}
	return byID, nil
}

func (s *service) buildSessionParams(
	ctx context.Context,
	input InitiateInput,
	variants map[uuid.UUID]*models.ProductVariant,
	subtotal int,
	discount *discounts.ValidationResult,
) (*stripe.CheckoutSessionParams, error) {
	currency := s.checkoutCfg.Currency

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(input.Items)+1)
	for _, item := range input.Items {
		variant := variants[item.VariantID]
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(int64(variant.PriceCents)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(lineItemName(variant)),
				},
			},
		})
	}

	quote := QuoteShipping(s.shippingCfg, subtotal, discount != nil && discount.FreeShipping)
	if quote.Cents > 0 {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(int64(quote.Cents)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Shipping"),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(s.checkoutCfg.SuccessURL),
		CancelURL:  stripe.String(s.checkoutCfg.CancelURL),
		BillingAddressCollection: stripe.String(
			string(stripe.CheckoutSessionBillingAddressCollectionRequired),
		),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"US"}),
		},
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}

	if discount != nil && discount.DiscountCents > 0 {
		couponID, err := s.oneOffCoupon(ctx, currency, discount)
		if err != nil {
			return nil, err
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(couponID)},
		}
	}

	itemsJSON, err := json.Marshal(input.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart metadata")
	}
	params.AddMetadata(MetadataItemsKey, string(itemsJSON))
	if discount != nil {
		params.AddMetadata(MetadataDiscountKey, discount.Code)
	}

	return params, nil
}

// oneOffCoupon mints a single-use coupon so the hosted page charges the
// discounted amount and the completion webhook sees it in amount_discount.
func (s *service) oneOffCoupon(ctx context.Context, currency string, discount *discounts.ValidationResult) (string, error) {
	params := &stripe.CouponParams{
		Duration:  stripe.String(string(stripe.CouponDurationOnce)),
		Name:      stripe.String(discount.Code),
		AmountOff: stripe.Int64(int64(discount.DiscountCents)),
		Currency:  stripe.String(currency),
	}

	coupon, err := s.stripeClient.CreateCoupon(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating discount coupon")
	}
	return coupon.ID, nil
}

func lineItemName(variant *models.ProductVariant) string {
	if variant.Product != nil && variant.Product.Name != "" {
		return fmt.Sprintf("%s - %s", variant.Product.Name, variant.Name)
	}
	return variant.Name
}
