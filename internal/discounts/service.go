package discounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
)

// Service validates customer-entered discount codes and manages the admin
// discount catalog.
type Service interface {
	Validate(ctx context.Context, code string, subtotalCents int) (*ValidationResult, error)
	Create(ctx context.Context, input CreateInput) (*models.DiscountCode, error)
	List(ctx context.Context) ([]models.DiscountCode, error)
}

// ValidationResult is the storefront preview of applying a code.
type ValidationResult struct {
	CodeID        uuid.UUID          `json:"code_id"`
	Code          string             `json:"code"`
	Type          enums.DiscountType `json:"type"`
	DiscountCents int                `json:"discount_cents"`
	FreeShipping  bool               `json:"free_shipping"`
}

// CreateInput describes a new discount code.
type CreateInput struct {
	Code             string
	Type             enums.DiscountType
	Value            int
	MinPurchaseCents *int
	MaxUses          *int
	ExpiresAt        *time.Time
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the discounts service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "discounts repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Validate(ctx context.Context, code string, subtotalCents int) (*ValidationResult, error) {
	if Canonicalize(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code required")
	}

	discount, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount code")
	}

	if !discount.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is no longer active")
	}
	if discount.ExpiresAt != nil && discount.ExpiresAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code has expired")
	}
	if discount.MaxUses != nil && discount.UsedCount >= *discount.MaxUses {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code usage limit reached")
	}
	if discount.MinPurchaseCents != nil && subtotalCents < *discount.MinPurchaseCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order subtotal below discount minimum").
			WithDetails(map[string]any{"min_purchase_cents": *discount.MinPurchaseCents})
	}

	return &ValidationResult{
		CodeID:        discount.ID,
		Code:          discount.Code,
		Type:          discount.Type,
		DiscountCents: Amount(discount, subtotalCents),
		FreeShipping:  discount.Type == enums.DiscountTypeFreeShipping,
	}, nil
}

// Amount computes the discount a code yields against a subtotal. Percentage
// values are whole percents; results round half-up to the nearest cent.
func Amount(discount *models.DiscountCode, subtotalCents int) int {
	switch discount.Type {
	case enums.DiscountTypePercentage:
		amount := decimal.NewFromInt(int64(subtotalCents)).
			Mul(decimal.NewFromInt(int64(discount.Value))).
			Div(decimal.NewFromInt(100)).
			Round(0)
		return int(amount.IntPart())
	case enums.DiscountTypeFixed:
		if discount.Value > subtotalCents {
			return subtotalCents
		}
		return discount.Value
	default:
		return 0
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.DiscountCode, error) {
	if Canonicalize(input.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code required")
	}
	if !input.Type.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if input.Value < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be non-negative")
	}
	if input.Type == enums.DiscountTypePercentage && input.Value > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}

	discount := &models.DiscountCode{
		ID:               uuid.New(),
		Code:             Canonicalize(input.Code),
		Type:             input.Type,
		Value:            input.Value,
		MinPurchaseCents: input.MinPurchaseCents,
		MaxUses:          input.MaxUses,
		Active:           true,
		ExpiresAt:        input.ExpiresAt,
	}
	created, err := s.repo.Create(ctx, discount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount code")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.DiscountCode, error) {
	codes, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discount codes")
	}
	return codes, nil
}
