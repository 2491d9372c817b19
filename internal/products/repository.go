package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
)

// ListFilters narrows product list queries.
type ListFilters struct {
	CategoryID *uuid.UUID
	Search     string
	ActiveOnly bool
}

// Repository wires product and variant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateProduct inserts the product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct persists all mutable columns of the product.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).
		Model(product).
		Select("category_id", "name", "slug", "description", "base_price", "images", "axes", "is_active").
		Updates(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product; variants cascade via FK.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail loads the product with its category and variants, variants
// ordered by creation so axis-configured order is stable.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product detail by its storefront slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns one cursor page of products, newest first.
func (r *Repository) ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, *string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Preload("Variants").
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = true")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var nextCursor *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		encoded := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		nextCursor = &encoded
	}
	return rows, nextCursor, nil
}

// ReplaceVariants swaps the product's variant set. Rows whose value survives
// keep their identity (and any cart references); removed values cascade.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	tx := r.db.WithContext(ctx)

	keep := make([]string, 0, len(variants))
	for _, variant := range variants {
		keep = append(keep, variant.Value)
	}

	del := tx.Where("product_id = ?", productID)
	if len(keep) > 0 {
		del = del.Where("value NOT IN ?", keep)
	}
	if err := del.Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}

	for i := range variants {
		variants[i].ProductID = productID
		if err := tx.Where("product_id = ? AND value = ?", productID, variants[i].Value).
			Assign(map[string]any{
				"price": variants[i].Price,
				"stock": variants[i].Stock,
				"image": variants[i].Image,
			}).
			FirstOrCreate(&variants[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindVariantByID loads one variant row.
func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// DecrementStock reserves quantity against the variant's stock. The guard in
// the WHERE clause makes the reservation atomic; a false return means the
// remaining stock no longer covers the request.
func (r *Repository) DecrementStock(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
