package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
)

func TestValidatePercentage(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	seedCode(t, db, models.DiscountCode{
		Code:   "SAVE10",
		Type:   enums.DiscountTypePercentage,
		Value:  10,
		Active: true,
	})

	result, err := svc.Validate(context.Background(), "save10", 4488)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.DiscountCents != 449 {
		t.Fatalf("expected 10%% of 4488 to round to 449, got %d", result.DiscountCents)
	}
	if result.FreeShipping {
		t.Fatal("percentage code should not flag free shipping")
	}
}

func TestValidateFixedCapsAtSubtotal(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	seedCode(t, db, models.DiscountCode{
		Code:   "FIVER",
		Type:   enums.DiscountTypeFixed,
		Value:  500,
		Active: true,
	})

	result, err := svc.Validate(context.Background(), "FIVER", 300)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.DiscountCents != 300 {
		t.Fatalf("fixed discount should cap at subtotal, got %d", result.DiscountCents)
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	past := time.Now().Add(-time.Hour)
	maxUses := 5
	minPurchase := 2000

	seedCode(t, db, models.DiscountCode{Code: "INACTIVE", Type: enums.DiscountTypeFixed, Value: 100, Active: false})
	seedCode(t, db, models.DiscountCode{Code: "EXPIRED", Type: enums.DiscountTypeFixed, Value: 100, Active: true, ExpiresAt: &past})
	seedCode(t, db, models.DiscountCode{Code: "USEDUP", Type: enums.DiscountTypeFixed, Value: 100, Active: true, MaxUses: &maxUses, UsedCount: 5})
	seedCode(t, db, models.DiscountCode{Code: "BIGMIN", Type: enums.DiscountTypeFixed, Value: 100, Active: true, MinPurchaseCents: &minPurchase})

	cases := []struct {
		name string
		code string
	}{
		{"inactive", "INACTIVE"},
		{"expired", "EXPIRED"},
		{"used up", "USEDUP"},
		{"below minimum", "BIGMIN"},
	}
	for _, tc := range cases {
		_, err := svc.Validate(context.Background(), tc.code, 1000)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	_, err := svc.Validate(context.Background(), "NOPE", 1000)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unknown code: expected not found, got %v", err)
	}
}

func TestIncrementUsage(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	code := seedCode(t, db, models.DiscountCode{Code: "BUMP", Type: enums.DiscountTypeFixed, Value: 100, Active: true})

	if err := repo.IncrementUsage(ctx, code); err != nil {
		t.Fatalf("increment usage: %v", err)
	}
	if err := repo.IncrementUsage(ctx, code); err != nil {
		t.Fatalf("increment usage: %v", err)
	}

	stored, err := repo.FindByCode(ctx, "bump")
	if err != nil {
		t.Fatalf("find code: %v", err)
	}
	if stored.UsedCount != 2 {
		t.Fatalf("expected used count 2, got %d", stored.UsedCount)
	}

	if err := repo.IncrementUsage(ctx, uuid.New()); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found for unknown id, got %v", err)
	}
}

func TestCreateCanonicalizes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	created, err := svc.Create(context.Background(), CreateInput{
		Code:  "  welcome5 ",
		Type:  enums.DiscountTypeFixed,
		Value: 500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "WELCOME5" {
		t.Fatalf("expected canonicalized code WELCOME5, got %q", created.Code)
	}

	_, err = svc.Create(context.Background(), CreateInput{Code: "PCT", Type: enums.DiscountTypePercentage, Value: 150})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for >100%%, got %v", err)
	}
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedCode(t *testing.T, db *gorm.DB, code models.DiscountCode) uuid.UUID {
	t.Helper()
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	// GORM replaces a zero-value Active with its schema default (true) during
	// Create, both in the INSERT and on the struct itself; capture the intended
	// value first and persist it explicitly afterwards.
	active := code.Active
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("seed discount code: %v", err)
	}
	if err := db.Model(&models.DiscountCode{}).Where("id = ?", code.ID).Update("active", active).Error; err != nil {
		t.Fatalf("seed discount code active flag: %v", err)
	}
	return code.ID
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:discounts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.DiscountCode{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
