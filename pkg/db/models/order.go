package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
)

// Order is an immutable record of a completed checkout. Amounts are VND.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	AddressID     uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	CouponID      *uuid.UUID          `gorm:"column:coupon_id;type:uuid"`
	Status        enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	Note          *string             `gorm:"column:note"`
	Subtotal      int64               `gorm:"column:subtotal;not null"`
	Fee           int64               `gorm:"column:fee;not null"`
	Discount      int64               `gorm:"column:discount;not null"`
	Total         int64               `gorm:"column:total;not null"`
	PaymentURL    *string             `gorm:"column:payment_url"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
