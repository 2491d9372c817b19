package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/types"
)

// ProductDTO is the storefront/back-office product payload.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	CategoryID  uuid.UUID         `json:"category_id"`
	Category    *CategoryRefDTO   `json:"category,omitempty"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description,omitempty"`
	BasePrice   int64             `json:"base_price"`
	Images      []string          `json:"images"`
	Axes        types.VariantAxes `json:"axes"`
	Variantless bool              `json:"variantless"`
	Variants    []VariantDTO      `json:"variants"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// VariantDTO is one sellable combination with its price and stock.
type VariantDTO struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
	Price int64     `json:"price"`
	Stock int       `json:"stock"`
	Image *string   `json:"image,omitempty"`
}

// CategoryRefDTO is the minimal category reference embedded in product reads.
type CategoryRefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ResolveResultDTO is the response of a variant-resolution request. Resolved
// is nil when the complete selection matches no variant.
type ResolveResultDTO struct {
	Resolved *VariantDTO `json:"resolved,omitempty"`
	Image    *string     `json:"image,omitempty"`
}

// ProductListResult carries one page of products plus the next cursor.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// NewProductDTO maps the persisted model into the API payload.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		BasePrice:   product.BasePrice,
		Images:      append([]string{}, product.Images...),
		Axes:        product.Axes,
		Variantless: IsVariantless(product.Axes),
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategoryRefDTO{
			ID:   product.Category.ID,
			Name: product.Category.Name,
			Slug: product.Category.Slug,
		}
	}
	dto.Variants = make([]VariantDTO, len(product.Variants))
	for i, variant := range product.Variants {
		dto.Variants[i] = NewVariantDTO(&variant)
	}
	return dto
}

// NewVariantDTO maps one variant row.
func NewVariantDTO(variant *models.ProductVariant) VariantDTO {
	return VariantDTO{
		ID:    variant.ID,
		Value: variant.Value,
		Price: variant.Price,
		Stock: variant.Stock,
		Image: variant.Image,
	}
}
