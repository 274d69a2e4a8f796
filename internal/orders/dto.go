package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/pkg/db/models"
	"github.com/snackshack/storefront-backend/pkg/enums"
	"github.com/snackshack/storefront-backend/pkg/types"
)

// OrderDTO is the admin-facing order payload.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	OrderNumber     string            `json:"order_number"`
	Status          enums.OrderStatus `json:"status"`
	Email           string            `json:"email"`
	Phone           *string           `json:"phone,omitempty"`
	ShippingAddress types.Address     `json:"shipping_address"`
	SubtotalCents   int               `json:"subtotal_cents"`
	ShippingCents   int               `json:"shipping_cents"`
	TaxCents        int               `json:"tax_cents"`
	DiscountCents   int               `json:"discount_cents"`
	TotalCents      int               `json:"total_cents"`
	TrackingNumber  *string           `json:"tracking_number,omitempty"`
	ShippedAt       *time.Time        `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time        `json:"delivered_at,omitempty"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// OrderItemDTO is a line of an order as sold.
type OrderItemDTO struct {
	ID          uuid.UUID `json:"id"`
	VariantID   uuid.UUID `json:"variant_id"`
	ProductName string    `json:"product_name"`
	VariantName string    `json:"variant_name"`
	Quantity    int       `json:"quantity"`
	PriceCents  int       `json:"price_cents"`
}

// ToOrderDTO maps a stored order to its API shape.
func ToOrderDTO(order *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
			PriceCents:  item.PriceCents,
		})
	}

	return OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		Email:           order.Email,
		Phone:           order.Phone,
		ShippingAddress: order.ShippingAddress,
		SubtotalCents:   order.SubtotalCents,
		ShippingCents:   order.ShippingCents,
		TaxCents:        order.TaxCents,
		DiscountCents:   order.DiscountCents,
		TotalCents:      order.TotalCents,
		TrackingNumber:  order.TrackingNumber,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}

// ToOrderDTOs maps a slice of stored orders.
func ToOrderDTOs(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, ToOrderDTO(&list[i]))
	}
	return out
}
