package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
)

// Coupon is a discount code with percent or fixed-amount semantics.
type Coupon struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code       string             `gorm:"column:code;not null;uniqueIndex"`
	Type       enums.DiscountType `gorm:"column:type;type:discount_type;not null"`
	Value      int64              `gorm:"column:value;not null"`
	ExpiresAt  *time.Time         `gorm:"column:expires_at"`
	UsageLimit *int               `gorm:"column:usage_limit"`
	UsedCount  int                `gorm:"column:used_count;not null;default:0"`
	IsActive   bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
