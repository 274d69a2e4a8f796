package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for products and variants.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	AdjustInventory(ctx context.Context, variantID uuid.UUID, delta int) error
	SetInventory(ctx context.Context, variantID uuid.UUID, quantity int) error
	ListLowStockVariants(ctx context.Context) ([]models.ProductVariant, error)
}

// ProductFilters narrows storefront product listings.
type ProductFilters struct {
	CategorySlug string
	FeaturedOnly bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Variants").
		Where("active = ?", true)
	if filters.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if filters.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filters.CategorySlug)
	}

	var products []models.Product
	if err := query.Order("products.created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id IN ?", ids).
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// AdjustInventory applies an atomic relative inventory change. Negative
// deltas are sale decrements; positive deltas restore stock on cancellation.
func (r *repository) AdjustInventory(ctx context.Context, variantID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("inventory", gorm.Expr("inventory + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetInventory(ctx context.Context, variantID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("inventory", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListLowStockVariants(ctx context.Context) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("inventory <= low_stock_threshold").
		Order("inventory ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}
