package coupons

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
)

// CouponDTO is the coupon payload for storefront and back office.
type CouponDTO struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	Type       string     `json:"type"`
	Value      int64      `json:"value"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	UsageLimit *int       `json:"usage_limit,omitempty"`
	UsedCount  int        `json:"used_count"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ListResult carries one coupon page plus the next cursor.
type ListResult struct {
	Coupons    []CouponDTO `json:"coupons"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// NewCouponDTO maps the persisted model.
func NewCouponDTO(coupon *models.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:         coupon.ID,
		Code:       coupon.Code,
		Type:       coupon.Type.String(),
		Value:      coupon.Value,
		ExpiresAt:  coupon.ExpiresAt,
		UsageLimit: coupon.UsageLimit,
		UsedCount:  coupon.UsedCount,
		IsActive:   coupon.IsActive,
		CreatedAt:  coupon.CreatedAt,
		UpdatedAt:  coupon.UpdatedAt,
	}
}
