package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
)

// OrderItemDTO is one snapshot line inside an order.
type OrderItemDTO struct {
	ID           uuid.UUID `json:"id"`
	VariantID    uuid.UUID `json:"variant_id"`
	ProductName  string    `json:"product_name"`
	VariantValue string    `json:"variant_value"`
	UnitPrice    int64     `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	Subtotal     int64     `json:"subtotal"`
}

// OrderDTO is the order payload served to storefront and back office.
type OrderDTO struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	AddressID     uuid.UUID      `json:"address_id"`
	CouponID      *uuid.UUID     `json:"coupon_id,omitempty"`
	Status        string         `json:"status"`
	StatusLabel   string         `json:"status_label"`
	PaymentMethod string         `json:"payment_method"`
	Note          *string        `json:"note,omitempty"`
	Subtotal      int64          `json:"subtotal"`
	Fee           int64          `json:"fee"`
	Discount      int64          `json:"discount"`
	Total         int64          `json:"total"`
	PaymentURL    *string        `json:"payment_url,omitempty"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ListResult carries one order page plus the next cursor.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// NewOrderDTO maps the persisted model into the API payload.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		UserID:        order.UserID,
		AddressID:     order.AddressID,
		CouponID:      order.CouponID,
		Status:        order.Status.String(),
		StatusLabel:   order.Status.Label(),
		PaymentMethod: order.PaymentMethod.String(),
		Note:          order.Note,
		Subtotal:      order.Subtotal,
		Fee:           order.Fee,
		Discount:      order.Discount,
		Total:         order.Total,
		PaymentURL:    order.PaymentURL,
		Items:         make([]OrderItemDTO, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for i, item := range order.Items {
		dto.Items[i] = OrderItemDTO{
			ID:           item.ID,
			VariantID:    item.VariantID,
			ProductName:  item.ProductName,
			VariantValue: item.VariantValue,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
		}
	}
	return dto
}
