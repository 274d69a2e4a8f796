package discounts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for discount codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	List(ctx context.Context) ([]models.DiscountCode, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a discounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Canonicalize normalizes a customer-entered code to its stored form.
func Canonicalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	err := r.db.WithContext(ctx).
		Where("code = ?", Canonicalize(code)).
		First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

// IncrementUsage bumps used_count atomically; callers run it inside the same
// transaction that creates the order so a rollback undoes the increment.
func (r *repository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.DiscountCode{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	code.Code = Canonicalize(code.Code)
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

func (r *repository) List(ctx context.Context) ([]models.DiscountCode, error) {
	var codes []models.DiscountCode
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}
