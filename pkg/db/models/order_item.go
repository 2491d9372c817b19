package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots a purchased cart line. Product name and variant value
// are copied at checkout so later catalog edits never rewrite history.
type OrderItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID    uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	ProductName  string    `gorm:"column:product_name;not null"`
	VariantValue string    `gorm:"column:variant_value;not null"`
	UnitPrice    int64     `gorm:"column:unit_price;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	Subtotal     int64     `gorm:"column:subtotal;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
