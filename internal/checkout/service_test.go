package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/internal/catalog"
	"github.com/snackshack/storefront-backend/internal/discounts"
	"github.com/snackshack/storefront-backend/pkg/config"
	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

type fakeStripeClient struct {
	lastSessionParams *stripe.CheckoutSessionParams
	lastCouponParams  *stripe.CouponParams
	couponCalls       int
}

func (f *fakeStripeClient) Create(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.lastSessionParams = params
	return &stripe.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.com/pay/cs_test_123",
	}, nil
}

func (f *fakeStripeClient) Get(_ context.Context, id string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{ID: id}, nil
}

func (f *fakeStripeClient) CreateCoupon(_ context.Context, params *stripe.CouponParams) (*stripe.Coupon, error) {
	f.couponCalls++
	f.lastCouponParams = params
	return &stripe.Coupon{ID: "co_test_123"}, nil
}

func TestInitiateEmptyCart(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestCheckout(t)

	_, err := svc.Initiate(context.Background(), InitiateInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestInitiateUnknownVariant(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestCheckout(t)

	_, err := svc.Initiate(context.Background(), InitiateInput{
		Items: []CartItem{{VariantID: uuid.New(), Quantity: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown variant, got %v", err)
	}
}

func TestInitiateAddsFlatRateShippingBelowThreshold(t *testing.T) {
	t.Parallel()

	svc, fake, gdb := newTestCheckout(t)
	variantID := seedCheckoutVariant(t, gdb, "Sour Gummies", "Small", 1500)

	result, err := svc.Initiate(context.Background(), InitiateInput{
		Items: []CartItem{{VariantID: variantID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if result.SessionID != "cs_test_123" || result.URL == "" {
		t.Fatalf("unexpected session result: %+v", result)
	}

	// 3000 subtotal is below the 5000 threshold, so a shipping line rides along.
	lines := fake.lastSessionParams.LineItems
	if len(lines) != 2 {
		t.Fatalf("expected product + shipping lines, got %d", len(lines))
	}
	shipping := lines[1]
	if *shipping.PriceData.UnitAmount != 599 {
		t.Fatalf("expected 599 shipping, got %d", *shipping.PriceData.UnitAmount)
	}
	if *shipping.PriceData.ProductData.Name != "Shipping" {
		t.Fatalf("unexpected shipping line name %q", *shipping.PriceData.ProductData.Name)
	}
}

func TestInitiateFreeShippingAtThreshold(t *testing.T) {
	t.Parallel()

	svc, fake, gdb := newTestCheckout(t)
	variantID := seedCheckoutVariant(t, gdb, "Sour Gummies", "Bulk", 5000)

	if _, err := svc.Initiate(context.Background(), InitiateInput{
		Items: []CartItem{{VariantID: variantID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if len(fake.lastSessionParams.LineItems) != 1 {
		t.Fatalf("expected no shipping line at threshold, got %d lines", len(fake.lastSessionParams.LineItems))
	}
}

func TestInitiateMetadataCarriesCart(t *testing.T) {
	t.Parallel()

	svc, fake, gdb := newTestCheckout(t)
	variantID := seedCheckoutVariant(t, gdb, "Sour Gummies", "Small", 1500)
	seedCheckoutDiscount(t, gdb, "SAVE5", enums.DiscountTypeFixed, 500)

	if _, err := svc.Initiate(context.Background(), InitiateInput{
		Items:        []CartItem{{VariantID: variantID, Quantity: 2}},
		DiscountCode: "save5",
	}); err != nil {
		t.Fatalf("initiate: %v", err)
	}

	meta := fake.lastSessionParams.Metadata
	var items []CartItem
	if err := json.Unmarshal([]byte(meta[MetadataItemsKey]), &items); err != nil {
		t.Fatalf("metadata items: %v", err)
	}
	if len(items) != 1 || items[0].VariantID != variantID || items[0].Quantity != 2 {
		t.Fatalf("unexpected metadata items: %+v", items)
	}
	if meta[MetadataDiscountKey] != "SAVE5" {
		t.Fatalf("expected canonical discount code in metadata, got %q", meta[MetadataDiscountKey])
	}

	if fake.couponCalls != 1 {
		t.Fatalf("expected one coupon call, got %d", fake.couponCalls)
	}
	if *fake.lastCouponParams.AmountOff != 500 {
		t.Fatalf("expected 500 off coupon, got %d", *fake.lastCouponParams.AmountOff)
	}
	if len(fake.lastSessionParams.Discounts) != 1 {
		t.Fatal("expected coupon attached to the session")
	}
}

func TestInitiateFreeShippingCode(t *testing.T) {
	t.Parallel()

	svc, fake, gdb := newTestCheckout(t)
	variantID := seedCheckoutVariant(t, gdb, "Sour Gummies", "Small", 1500)
	seedCheckoutDiscount(t, gdb, "SHIPFREE", enums.DiscountTypeFreeShipping, 0)

	if _, err := svc.Initiate(context.Background(), InitiateInput{
		Items:        []CartItem{{VariantID: variantID, Quantity: 1}},
		DiscountCode: "SHIPFREE",
	}); err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if len(fake.lastSessionParams.LineItems) != 1 {
		t.Fatal("free-shipping code should drop the shipping line")
	}
	if fake.couponCalls != 0 {
		t.Fatal("free-shipping code should not mint a coupon")
	}
}

func newTestCheckout(t *testing.T) (Service, *fakeStripeClient, *gorm.DB) {
	t.Helper()

	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.DiscountCode{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	discountSvc, err := discounts.NewService(discounts.NewRepository(gdb))
	if err != nil {
		t.Fatalf("discount service: %v", err)
	}

	fake := &fakeStripeClient{}
	svc, err := NewService(
		fake,
		catalog.NewRepository(gdb),
		discountSvc,
		config.CheckoutConfig{
			SuccessURL: "https://shop.example.com/success",
			CancelURL:  "https://shop.example.com/cart",
			Currency:   "usd",
		},
		config.ShippingConfig{FlatRateCents: 599, FreeThresholdCents: 5000},
		logger.Nop(),
	)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return svc, fake, gdb
}

func seedCheckoutVariant(t *testing.T, gdb *gorm.DB, productName, variantName string, priceCents int) uuid.UUID {
	t.Helper()
	product := models.Product{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       productName,
		Slug:       "p-" + uuid.NewString(),
		Active:     true,
	}
	if err := gdb.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := models.ProductVariant{
		ID:         uuid.New(),
		ProductID:  product.ID,
		Name:       variantName,
		SKU:        "SKU-" + uuid.NewString(),
		PriceCents: priceCents,
		Inventory:  100,
	}
	if err := gdb.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return variant.ID
}

func seedCheckoutDiscount(t *testing.T, gdb *gorm.DB, code string, discountType enums.DiscountType, value int) {
	t.Helper()
	record := models.DiscountCode{
		ID:     uuid.New(),
		Code:   code,
		Type:   discountType,
		Value:  value,
		Active: true,
	}
	if err := gdb.Create(&record).Error; err != nil {
		t.Fatalf("seed discount: %v", err)
	}
}
