package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/thanhngvn/foodcourt-backend/pkg/types"
)

// Product is a storefront listing. Axes describe the selectable attributes;
// every concrete price/stock combination lives in Variants.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID         `gorm:"column:category_id;type:uuid;not null;index"`
	Name        string            `gorm:"column:name;not null"`
	Slug        string            `gorm:"column:slug;not null;uniqueIndex"`
	Description *string           `gorm:"column:description"`
	BasePrice   int64             `gorm:"column:base_price;not null"`
	Images      pq.StringArray    `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Axes        types.VariantAxes `gorm:"column:axes;type:jsonb;serializer:json;not null"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	Category    *Category         `gorm:"foreignKey:CategoryID"`
	Variants    []ProductVariant  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
