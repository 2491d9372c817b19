package products

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/internal/events"
	"github.com/thanhngvn/foodcourt-backend/pkg/db"
	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
	"github.com/thanhngvn/foodcourt-backend/pkg/types"
)

// Service exposes catalog management and variant resolution.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductListResult, error)
	ResolveSelection(ctx context.Context, productID uuid.UUID, selections Selections) (*ResolveResultDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID  uuid.UUID
	Name        string
	Slug        string
	Description *string
	BasePrice   int64
	Images      []string
	Axes        types.VariantAxes
	Variants    []VariantInput
	IsActive    bool
}

// VariantInput defines one sellable combination on create/update.
type VariantInput struct {
	Value string
	Price int64
	Stock int
	Image *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Slug        *string
	Description *string
	BasePrice   *int64
	Images      *[]string
	Axes        *types.VariantAxes
	Variants    *[]VariantInput
	IsActive    *bool
}

type categoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type productRepository interface {
	WithTx(tx *gorm.DB) *Repository
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, *string, error)
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error
}

type eventNotifier interface {
	Publish(ctx context.Context, topic events.Topic, action, resourceID string)
}

type service struct {
	repo         productRepository
	dbClient     *db.Client
	categoryRepo categoryReader
	notifier     eventNotifier
}

// NewService constructs a product service instance. The notifier may be nil
// when live refresh is not wired, e.g. in tests.
func NewService(repo productRepository, dbClient *db.Client, categoryRepo categoryReader, notifier eventNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, dbClient: dbClient, categoryRepo: categoryRepo, notifier: notifier}, nil
}

// CreateProduct validates the axis configuration and variants, then writes the
// product and its variant set in one transaction.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := ValidateAxes(input.Axes); err != nil {
		return nil, err
	}
	if err := validateVariantInputs(input.Axes, input.Variants); err != nil {
		return nil, err
	}
	if input.BasePrice < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price must be non-negative")
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(input.Name)
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			CategoryID:  input.CategoryID,
			Name:        strings.TrimSpace(input.Name),
			Slug:        slug,
			Description: input.Description,
			BasePrice:   input.BasePrice,
			Images:      input.Images,
			Axes:        input.Axes,
			IsActive:    input.IsActive,
		}
		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if err := txRepo.ReplaceVariants(ctx, created.ID, buildVariantRows(input.Variants)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.notify(ctx, "created", createdID)
	return s.loadDetail(ctx, createdID)
}

// UpdateProduct applies partial updates; a new axis configuration must arrive
// together with a variant set that decomposes against it.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Axes != nil {
		if err := ValidateAxes(*input.Axes); err != nil {
			return nil, err
		}
		if input.Variants == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "changing axes requires the variant list")
		}
	}

	axes := product.Axes
	if input.Axes != nil {
		axes = *input.Axes
	}
	if input.Variants != nil {
		if err := validateVariantInputs(axes, *input.Variants); err != nil {
			return nil, err
		}
	}
	if input.BasePrice != nil && *input.BasePrice < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price must be non-negative")
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applyProductUpdate(product, input)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Variants != nil {
			if err := txRepo.ReplaceVariants(ctx, product.ID, buildVariantRows(*input.Variants)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	s.notify(ctx, "updated", product.ID)
	return s.loadDetail(ctx, product.ID)
}

// DeleteProduct removes a product and relies on FK cascades for variants.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.notify(ctx, "deleted", productID)
	return nil
}

func (s *service) notify(ctx context.Context, action string, productID uuid.UUID) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, events.TopicProduct, action, productID.String())
	}
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	return s.loadDetail(ctx, productID)
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductListResult, error) {
	rows, nextCursor, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	result := &ProductListResult{
		Products:   make([]ProductDTO, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Products[i] = *NewProductDTO(&rows[i])
	}
	return result, nil
}

// ResolveSelection resolves a per-axis selection against the product's
// variants. Complete selections that match no variant return an empty result;
// incomplete or unknown selections fail validation with the missing axes in
// the error details.
func (s *service) ResolveSelection(ctx context.Context, productID uuid.UUID, selections Selections) (*ResolveResultDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if IsVariantless(product.Axes) {
		selections = DefaultSelections(product.Axes)
	}

	resolved, err := Resolve(product.Axes, selections, product.Variants)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return &ResolveResultDTO{}, nil
	}

	dto := NewVariantDTO(resolved)
	result := &ResolveResultDTO{Resolved: &dto}
	switch {
	case resolved.Image != nil:
		result.Image = resolved.Image
	case len(product.Images) > 0:
		first := product.Images[0]
		result.Image = &first
	}
	return result, nil
}

func (s *service) loadDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

func (s *service) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func validateVariantInputs(axes types.VariantAxes, variants []VariantInput) error {
	if len(variants) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one variant is required")
	}
	seen := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		if err := ValidateVariantValue(axes, variant.Value); err != nil {
			return err
		}
		if variant.Price < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variant %q price must be non-negative", variant.Value))
		}
		if variant.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variant %q stock must be non-negative", variant.Value))
		}
		if _, dup := seen[variant.Value]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate variant value %q", variant.Value))
		}
		seen[variant.Value] = struct{}{}
	}
	return nil
}

func buildVariantRows(inputs []VariantInput) []models.ProductVariant {
	rows := make([]models.ProductVariant, len(inputs))
	for i, input := range inputs {
		rows[i] = models.ProductVariant{
			Value: input.Value,
			Price: input.Price,
			Stock: input.Stock,
			Image: input.Image,
		}
	}
	return rows
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		product.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.BasePrice != nil {
		product.BasePrice = *input.BasePrice
	}
	if input.Images != nil {
		product.Images = append([]string(nil), *input.Images...)
	}
	if input.Axes != nil {
		product.Axes = *input.Axes
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and strips the name down to a URL-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
