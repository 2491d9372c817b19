package coupons

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
)

func TestValidateAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	limit := 5

	t.Run("valid", func(t *testing.T) {
		coupon := &models.Coupon{
			Code:      "SUMMER10",
			Type:      enums.DiscountTypePercent,
			Value:     10,
			ExpiresAt: &future,
			IsActive:  true,
		}
		require.NoError(t, ValidateAt(coupon, now))
	})

	t.Run("nil", func(t *testing.T) {
		err := ValidateAt(nil, now)
		require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	})

	t.Run("inactive", func(t *testing.T) {
		err := ValidateAt(&models.Coupon{IsActive: false}, now)
		require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})

	t.Run("expired", func(t *testing.T) {
		err := ValidateAt(&models.Coupon{IsActive: true, ExpiresAt: &past}, now)
		require.Error(t, err)
	})

	t.Run("usageLimitReached", func(t *testing.T) {
		err := ValidateAt(&models.Coupon{IsActive: true, UsageLimit: &limit, UsedCount: 5}, now)
		require.Error(t, err)
	})

	t.Run("usageLimitRemaining", func(t *testing.T) {
		require.NoError(t, ValidateAt(&models.Coupon{IsActive: true, UsageLimit: &limit, UsedCount: 4}, now))
	})
}
