package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
)

// PricedLine is the minimal pricing input for one checked cart line.
type PricedLine struct {
	UnitPrice int64
	Quantity  int
}

// Totals is the pricing breakdown, in VND.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Fee      int64 `json:"fee"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// Price computes subtotal, delivery fee plus tax, coupon discount, and the
// final total.
//
// The tax base depends on the coupon: for a percent coupon, tax applies to
// the discount amount; for a fixed-amount coupon or no coupon, tax applies to
// the full subtotal. Total is not clamped at zero unless the floor flag is
// set, so an oversized fixed discount can drive it negative.
func Price(lines []PricedLine, coupon *models.Coupon, cfg config.PricingConfig) Totals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}

	subtotalDec := decimal.NewFromInt(subtotal)
	taxRate := decimal.NewFromFloat(cfg.TaxRate)

	var discountDec decimal.Decimal
	taxBase := subtotalDec
	if coupon != nil {
		switch coupon.Type {
		case enums.DiscountTypePercent:
			discountDec = subtotalDec.Mul(decimal.NewFromInt(coupon.Value)).Div(decimal.NewFromInt(100))
			taxBase = discountDec
		case enums.DiscountTypeAmount:
			discountDec = decimal.NewFromInt(coupon.Value)
		}
	}

	feeDec := decimal.NewFromInt(cfg.DeliveryFee).Add(taxRate.Mul(taxBase))

	discount := discountDec.Round(0).IntPart()
	fee := feeDec.Round(0).IntPart()
	total := subtotal + fee - discount
	if cfg.FloorTotal && total < 0 {
		total = 0
	}

	return Totals{
		Subtotal: subtotal,
		Fee:      fee,
		Discount: discount,
		Total:    total,
	}
}
