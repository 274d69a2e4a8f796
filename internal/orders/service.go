package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/internal/catalog"
	"github.com/snackshack/storefront-backend/pkg/db"
	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
)

// Service exposes admin order management: listing, fulfillment status
// transitions, tracking, cancellation, and dashboard stats.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	AddTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	client  *db.Client
	repo    Repository
	catalog catalog.Repository
	log     *logger.Logger
	now     func() time.Time
}

// NewService builds the orders service.
func NewService(client *db.Client, repo Repository, catalogRepo catalog.Repository, log *logger.Logger) (Service, error) {
	if client == nil || repo == nil || catalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service dependencies required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		client:  client,
		repo:    repo,
		catalog: catalogRepo,
		log:     log,
		now:     time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status filter")
	}
	out, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// UpdateStatus moves an order through the fulfillment lifecycle. Cancellation
// goes through Cancel so inventory restoration is never skipped.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if status == enums.OrderStatusCancelled {
		return s.Cancel(ctx, id)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is in a terminal status")
	}

	stamp := s.now()
	if err := s.repo.UpdateStatus(ctx, id, status, &stamp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return s.Get(ctx, id)
}

func (s *service) AddTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*models.Order, error) {
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number required")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is in a terminal status")
	}

	if err := s.repo.UpdateTracking(ctx, id, trackingNumber, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording tracking number")
	}
	return s.Get(ctx, id)
}

// Cancel marks the order CANCELLED and restores the inventory its items
// consumed, all in one transaction. Discount usage counts stay as-is: the
// code was genuinely redeemed even if the order was later cancelled.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == enums.OrderStatusCancelled {
		return current, nil
	}
	if current.Status.Terminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is in a terminal status")
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.repo.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)

		if err := txOrders.UpdateStatus(ctx, id, enums.OrderStatusCancelled, nil); err != nil {
			return err
		}
		for _, item := range current.Items {
			if err := txCatalog.AdjustInventory(ctx, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}

	s.log.Info(s.log.WithOrderNumber(ctx, current.OrderNumber), "order cancelled, inventory restored")
	return s.Get(ctx, id)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing order stats")
	}
	return stats, nil
}
