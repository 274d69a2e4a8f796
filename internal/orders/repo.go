package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
)

// ListFilters narrows admin order listings.
type ListFilters struct {
	Status enums.OrderStatus
	Limit  int
	Offset int
}

// Stats is the admin dashboard rollup.
type Stats struct {
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
	RevenueCents  int64 `json:"revenue_cents"`
}

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByStripePaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	FindLastOrder(ctx context.Context) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, stampedAt *time.Time) error
	UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string, shippedAt time.Time) error
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create persists the order and its items in one insert chain. Unique
// violations on stripe_payment_id or order_number surface to the caller
// untranslated so the webhook pipeline can tell them apart.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByStripePaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		First(&order, "stripe_payment_id = ?", paymentID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindLastOrder(ctx context.Context) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items")
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var out []models.Order
	if err := query.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, stampedAt *time.Time) error {
	updates := map[string]any{"status": status}
	switch status {
	case enums.OrderStatusShipped:
		updates["shipped_at"] = stampedAt
	case enums.OrderStatusDelivered:
		updates["delivered_at"] = stampedAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string, shippedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"tracking_number": trackingNumber,
			"status":          enums.OrderStatusShipped,
			"shipped_at":      shippedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	base := r.db.WithContext(ctx).Model(&models.Order{})

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", enums.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	var revenue *int64
	err := base.Session(&gorm.Session{}).
		Where("status NOT IN ?", []enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRefunded}).
		Select("SUM(total_cents)").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.RevenueCents = *revenue
	}
	return &stats, nil
}
