package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
)

// LineDTO is one cart row enriched with variant data and the per-user
// checkout flags.
type LineDTO struct {
	ID           uuid.UUID `json:"id"`
	VariantID    uuid.UUID `json:"variant_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductSlug  string    `json:"product_slug"`
	VariantValue string    `json:"variant_value"`
	UnitPrice    int64     `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	Stock        int       `json:"stock"`
	LineTotal    int64     `json:"line_total"`
	Image        *string   `json:"image,omitempty"`
	Checked      bool      `json:"checked"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// CartDTO is the full cart payload.
type CartDTO struct {
	Lines           []LineDTO `json:"lines"`
	CheckedSubtotal int64     `json:"checked_subtotal"`
	AllChecked      bool      `json:"all_checked"`
}

// NewLineDTO maps a cart row plus its runtime flags.
func NewLineDTO(item *models.CartItem, checked, disabled bool) LineDTO {
	dto := LineDTO{
		ID:        item.ID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
		Checked:   checked,
		Disabled:  disabled,
		CreatedAt: item.CreatedAt,
	}
	if variant := item.Variant; variant != nil {
		dto.VariantValue = variant.Value
		dto.UnitPrice = variant.Price
		dto.Stock = variant.Stock
		dto.LineTotal = variant.Price * int64(item.Quantity)
		if variant.Image != nil {
			dto.Image = variant.Image
		}
		if product := variant.Product; product != nil {
			dto.ProductID = product.ID
			dto.ProductName = product.Name
			dto.ProductSlug = product.Slug
			if dto.Image == nil && len(product.Images) > 0 {
				first := product.Images[0]
				dto.Image = &first
			}
		}
	}
	return dto
}
