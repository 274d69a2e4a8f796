package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
)

// Service exposes catalog reads for the storefront and inventory management
// for the back office.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters) ([]ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListLowStock(ctx context.Context) ([]VariantDTO, error)
	SetInventory(ctx context.Context, variantID uuid.UUID, quantity int) (*VariantDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, newProductDTO(&products[i]))
	}
	return dtos, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := newProductDTO(product)
	return &dto, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]VariantDTO, error) {
	variants, err := s.repo.ListLowStockVariants(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock variants")
	}
	dtos := make([]VariantDTO, 0, len(variants))
	for i := range variants {
		dtos = append(dtos, newVariantDTO(&variants[i]))
	}
	return dtos, nil
}

func (s *service) SetInventory(ctx context.Context, variantID uuid.UUID, quantity int) (*VariantDTO, error) {
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if err := s.repo.SetInventory(ctx, variantID, quantity); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set inventory")
	}
	variant, err := s.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload variant")
	}
	dto := newVariantDTO(variant)
	return &dto, nil
}
