package stripewebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/internal/checkout"
	"github.com/snackshack/storefront-backend/internal/orders"
	"github.com/snackshack/storefront-backend/pkg/db"
	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/types"
)

const (
	orderNumberRetries = 3
	orderNumberBackoff = 25 * time.Millisecond
)

// handleCheckoutCompleted materializes a paid order from a completed checkout
// session. Data-quality dead ends (missing payment intent, metadata, email,
// unknown variants) are logged and acknowledged: redelivering the same broken
// event cannot fix them. Only transient failures propagate so Stripe retries.
func (s *Service) handleCheckoutCompleted(ctx context.Context, eventType string, session *stripe.CheckoutSession) error {
	paymentID := paymentIntentID(session)
	if paymentID == "" {
		s.log.Warn(ctx, "checkout session has no payment intent")
		s.metrics.IncSkipped(eventType)
		return nil
	}
	ctx = s.log.WithField(ctx, "stripe_payment_id", paymentID)

	existing, err := s.orderRepo.FindByStripePaymentID(ctx, paymentID)
	if err != nil && err != gorm.ErrRecordNotFound {
		s.metrics.IncFailed(eventType)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup existing order")
	}
	if existing != nil {
		s.log.Info(s.log.WithOrderNumber(ctx, existing.OrderNumber), "order already exists")
		s.metrics.IncSkipped(eventType)
		return nil
	}

	meta, err := s.sessionMetadata(ctx, session)
	if err != nil {
		s.metrics.IncFailed(eventType)
		return err
	}

	items, parseErr := parseCartItems(meta[checkout.MetadataItemsKey])
	if parseErr != nil {
		s.log.Warn(ctx, fmt.Sprintf("cart metadata unusable: %v", parseErr))
		s.metrics.IncSkipped(eventType)
		return nil
	}

	email := customerEmail(session)
	if email == "" {
		s.log.Warn(ctx, "checkout session has no customer email")
		s.metrics.IncSkipped(eventType)
		return nil
	}

	variants, resolveErr := s.resolveVariants(ctx, items)
	if resolveErr != nil {
		if typed := pkgerrors.As(resolveErr); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			s.log.Warn(ctx, fmt.Sprintf("cart references unknown variants: %v", resolveErr))
			s.metrics.IncSkipped(eventType)
			return nil
		}
		s.metrics.IncFailed(eventType)
		return resolveErr
	}

	order := s.buildOrder(session, paymentID, email, items, variants)
	discountCode := meta[checkout.MetadataDiscountKey]

	backoff := retry.WithMaxRetries(orderNumberRetries, retry.NewConstant(orderNumberBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
			return s.createOrderTx(ctx, tx, order, items, discountCode, session)
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "stripe_payment_id") {
			// Concurrent duplicate delivery lost the race; same as step-1 no-op.
			s.log.Info(ctx, "order created by concurrent delivery")
			s.metrics.IncSkipped(eventType)
			return nil
		}
		s.metrics.IncFailed(eventType)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "materialize order")
	}

	s.log.Info(s.log.WithOrderNumber(ctx, order.OrderNumber), "order created")
	s.metrics.IncProcessed(eventType)
	return nil
}

// createOrderTx runs the full write set: discount usage, order number, order
// + items, inventory decrements. Everything commits or nothing does, so a
// redelivery can never observe an order without its decrements.
func (s *Service) createOrderTx(
	ctx context.Context,
	tx *gorm.DB,
	order *models.Order,
	items []checkout.CartItem,
	discountCode string,
	session *stripe.CheckoutSession,
) error {
	txOrders := s.orderRepo.WithTx(tx)
	txCatalog := s.catalogRepo.WithTx(tx)
	txDiscounts := s.discountRepo.WithTx(tx)

	order.ID = uuid.New()
	order.DiscountCodeID = nil
	order.DiscountCents = 0
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
	}

	if discountCode != "" {
		code, err := txDiscounts.FindByCode(ctx, discountCode)
		switch {
		case err == gorm.ErrRecordNotFound:
			// Unknown code never fails the order.
		case err != nil:
			return err
		default:
			if err := txDiscounts.IncrementUsage(ctx, code.ID); err != nil {
				return err
			}
			order.DiscountCodeID = &code.ID
			if session.TotalDetails != nil {
				order.DiscountCents = int(session.TotalDetails.AmountDiscount)
			}
		}
	}

	gen := orders.NewNumberGenerator(txOrders, s.ordersCfg.NumberPrefix, s.ordersCfg.NumberStart)
	number, err := gen.Next(ctx)
	if err != nil {
		return err
	}
	order.OrderNumber = number

	if err := txOrders.Create(ctx, order); err != nil {
		if db.IsUniqueViolation(err, "order_number") {
			return retry.RetryableError(err)
		}
		return err
	}

	for _, item := range items {
		if err := txCatalog.AdjustInventory(ctx, item.VariantID, -item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) buildOrder(
	session *stripe.CheckoutSession,
	paymentID string,
	email string,
	items []checkout.CartItem,
	variants map[uuid.UUID]*models.ProductVariant,
) *models.Order {
	subtotal := 0
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		variant := variants[item.VariantID]
		subtotal += variant.PriceCents * item.Quantity

		productName := ""
		if variant.Product != nil {
			productName = variant.Product.Name
		}
		orderItems = append(orderItems, models.OrderItem{
			VariantID:   variant.ID,
			ProductID:   variant.ProductID,
			ProductName: productName,
			VariantName: variant.Name,
			Quantity:    item.Quantity,
			PriceCents:  variant.PriceCents,
		})
	}

	tax := 0
	if session.TotalDetails != nil {
		tax = int(session.TotalDetails.AmountTax)
	}
	total := int(session.AmountTotal)

	return &models.Order{
		StripePaymentID: paymentID,
		Status:          enums.OrderStatusPaid,
		Email:           email,
		Phone:           customerPhone(session),
		ShippingAddress: shippingSnapshot(session),
		SubtotalCents:   subtotal,
		ShippingCents:   total - subtotal - tax,
		TaxCents:        tax,
		TotalCents:      total,
		Items:           orderItems,
	}
}

// sessionMetadata returns the session metadata, re-fetching the session by id
// once when the webhook payload carried none.
func (s *Service) sessionMetadata(ctx context.Context, session *stripe.CheckoutSession) (map[string]string, error) {
	if len(session.Metadata) > 0 || s.sessionClient == nil {
		return session.Metadata, nil
	}

	fetched, err := s.sessionClient.Get(ctx, session.ID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refetch checkout session")
	}
	return fetched.Metadata, nil
}

func (s *Service) resolveVariants(ctx context.Context, items []checkout.CartItem) (map[uuid.UUID]*models.ProductVariant, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}

	found, err := s.catalogRepo.FindVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart variants")
	}

	byID := make(map[uuid.UUID]*models.ProductVariant, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for _, item := range items {
		if _, ok := byID[item.VariantID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variant not found: %s", item.VariantID))
		}
	}
	return byID, nil
}

func parseCartItems(raw string) ([]checkout.CartItem, error) {
	if raw == "" {
		return nil, fmt.Errorf("no items in session metadata")
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.DisallowUnknownFields()

	var items []checkout.CartItem
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode items metadata: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("items metadata is empty")
	}
	for _, item := range items {
		if item.VariantID == uuid.Nil {
			return nil, fmt.Errorf("item variant id missing")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive")
		}
	}
	return items, nil
}

func paymentIntentID(session *stripe.CheckoutSession) string {
	if session == nil || session.PaymentIntent == nil {
		return ""
	}
	return session.PaymentIntent.ID
}

func customerEmail(session *stripe.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	return session.CustomerEmail
}

func customerPhone(session *stripe.CheckoutSession) *string {
	if session.CustomerDetails == nil || session.CustomerDetails.Phone == "" {
		return nil
	}
	phone := session.CustomerDetails.Phone
	return &phone
}

// shippingSnapshot freezes the collected shipping address, falling back to
// the billing details when shipping collection was skipped.
func shippingSnapshot(session *stripe.CheckoutSession) types.Address {
	var name string
	var addr *stripe.Address

	if session.CollectedInformation != nil && session.CollectedInformation.ShippingDetails != nil {
		name = session.CollectedInformation.ShippingDetails.Name
		addr = session.CollectedInformation.ShippingDetails.Address
	}
	if session.CustomerDetails != nil {
		if name == "" {
			name = session.CustomerDetails.Name
		}
		if addr == nil {
			addr = session.CustomerDetails.Address
		}
	}

	out := types.Address{Name: name}
	if addr != nil {
		out.Line1 = addr.Line1
		if addr.Line2 != "" {
			line2 := addr.Line2
			out.Line2 = &line2
		}
		out.City = addr.City
		out.State = addr.State
		out.PostalCode = addr.PostalCode
		out.Country = addr.Country
	}
	return out.Normalize()
}
