package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
)

func pricingConfig() config.PricingConfig {
	return config.PricingConfig{DeliveryFee: 30000, TaxRate: 0.10}
}

func TestPricePercentCoupon(t *testing.T) {
	// subtotal 200,000; 10% coupon -> discount 20,000; tax applies to the
	// discount: fee = 30,000 + 0.10*20,000 = 32,000; total = 212,000.
	lines := []PricedLine{
		{UnitPrice: 50000, Quantity: 2},
		{UnitPrice: 100000, Quantity: 1},
	}
	coupon := &models.Coupon{Type: enums.DiscountTypePercent, Value: 10}

	totals := Price(lines, coupon, pricingConfig())
	require.Equal(t, int64(200000), totals.Subtotal)
	require.Equal(t, int64(20000), totals.Discount)
	require.Equal(t, int64(32000), totals.Fee)
	require.Equal(t, int64(212000), totals.Total)
}

func TestPriceNoCoupon(t *testing.T) {
	// subtotal 150,000; fee = 30,000 + 0.10*150,000 = 45,000; total 195,000.
	lines := []PricedLine{{UnitPrice: 75000, Quantity: 2}}

	totals := Price(lines, nil, pricingConfig())
	require.Equal(t, int64(150000), totals.Subtotal)
	require.Equal(t, int64(0), totals.Discount)
	require.Equal(t, int64(45000), totals.Fee)
	require.Equal(t, int64(195000), totals.Total)
}

func TestPriceAmountCoupon(t *testing.T) {
	// Fixed-amount coupons do not change the tax base.
	lines := []PricedLine{{UnitPrice: 100000, Quantity: 1}}
	coupon := &models.Coupon{Type: enums.DiscountTypeAmount, Value: 25000}

	totals := Price(lines, coupon, pricingConfig())
	require.Equal(t, int64(100000), totals.Subtotal)
	require.Equal(t, int64(25000), totals.Discount)
	require.Equal(t, int64(40000), totals.Fee)
	require.Equal(t, int64(115000), totals.Total)
}

func TestPriceOversizedAmountCouponCanGoNegative(t *testing.T) {
	lines := []PricedLine{{UnitPrice: 10000, Quantity: 1}}
	coupon := &models.Coupon{Type: enums.DiscountTypeAmount, Value: 100000}

	totals := Price(lines, coupon, pricingConfig())
	require.Equal(t, int64(10000+31000-100000), totals.Total)
	require.Negative(t, totals.Total)
}

func TestPriceFloorTotalClampsAtZero(t *testing.T) {
	lines := []PricedLine{{UnitPrice: 10000, Quantity: 1}}
	coupon := &models.Coupon{Type: enums.DiscountTypeAmount, Value: 100000}

	cfg := pricingConfig()
	cfg.FloorTotal = true
	totals := Price(lines, coupon, cfg)
	require.Equal(t, int64(0), totals.Total)
}

func TestPriceEmptyLines(t *testing.T) {
	totals := Price(nil, nil, pricingConfig())
	require.Equal(t, int64(0), totals.Subtotal)
	require.Equal(t, int64(30000), totals.Fee)
	require.Equal(t, int64(30000), totals.Total)
}
