package checkout

import (
	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/internal/addresses"
	"github.com/thanhngvn/foodcourt-backend/internal/orders"
)

// PreviewLineDTO is one checked cart line as shown on the checkout page.
type PreviewLineDTO struct {
	LineID       uuid.UUID `json:"line_id"`
	VariantID    uuid.UUID `json:"variant_id"`
	ProductName  string    `json:"product_name"`
	VariantValue string    `json:"variant_value"`
	UnitPrice    int64     `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	LineTotal    int64     `json:"line_total"`
}

// PreviewDTO is the pre-submit pricing breakdown for the checked lines.
// Address is the user's default delivery address, nil when none is set.
type PreviewDTO struct {
	Lines    []PreviewLineDTO      `json:"lines"`
	CouponID *uuid.UUID            `json:"coupon_id,omitempty"`
	Address  *addresses.AddressDTO `json:"address,omitempty"`
	Totals   Totals                `json:"totals"`
}

// ResultDTO is returned after a successful submit. PaymentURL is set for
// online payment methods only; cash-on-delivery completes without a redirect.
type ResultDTO struct {
	Order      orders.OrderDTO `json:"order"`
	PaymentURL *string         `json:"payment_url,omitempty"`
}
