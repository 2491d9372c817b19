package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db"
	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
	"github.com/thanhngvn/foodcourt-backend/pkg/types"
)

type stubProductRepo struct {
	detail *models.Product
}

func (s *stubProductRepo) WithTx(_ *gorm.DB) *Repository { panic("unimplemented") }

func (s *stubProductRepo) CreateProduct(_ context.Context, _ *models.Product) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductRepo) UpdateProduct(_ context.Context, _ *models.Product) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductRepo) DeleteProduct(_ context.Context, _ uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubProductRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductRepo) GetProductDetail(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if s.detail == nil || s.detail.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.detail, nil
}

func (s *stubProductRepo) FindBySlug(_ context.Context, _ string) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductRepo) ListProducts(_ context.Context, _ pagination.Params, _ ListFilters) ([]models.Product, *string, error) {
	panic("unimplemented")
}

func (s *stubProductRepo) ReplaceVariants(_ context.Context, _ uuid.UUID, _ []models.ProductVariant) error {
	panic("unimplemented")
}

type stubCategoryReader struct{}

func (stubCategoryReader) FindByID(_ context.Context, _ uuid.UUID) (*models.Category, error) {
	panic("unimplemented")
}

func newResolveTestService(t *testing.T, detail *models.Product) Service {
	t.Helper()
	svc, err := NewService(&stubProductRepo{detail: detail}, &db.Client{}, stubCategoryReader{}, nil)
	require.NoError(t, err)
	return svc
}

func TestResolveSelectionRejectsIncompleteSelection(t *testing.T) {
	product := &models.Product{
		ID:       uuid.New(),
		Axes:     sampleAxes(),
		Variants: sampleVariants(),
	}
	svc := newResolveTestService(t, product)

	_, err := svc.ResolveSelection(context.Background(), product.ID, Selections{"Size": "M", "Ice": ""})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, []string{"Ice"}, details["missing_axes"])
}

func TestResolveSelectionCompleteSelection(t *testing.T) {
	product := &models.Product{
		ID:       uuid.New(),
		Images:   []string{"menu.jpg"},
		Axes:     sampleAxes(),
		Variants: sampleVariants(),
	}
	svc := newResolveTestService(t, product)

	result, err := svc.ResolveSelection(context.Background(), product.ID, Selections{"Size": "M", "Ice": "Normal"})
	require.NoError(t, err)
	require.NotNil(t, result.Resolved)
	require.Equal(t, int64(55000), result.Resolved.Price)
	require.NotNil(t, result.Image)
	require.Equal(t, "menu.jpg", *result.Image)

	// Complete but unmatched combinations stay a 200 with no resolved variant.
	result, err = svc.ResolveSelection(context.Background(), product.ID, Selections{"Size": "S", "Ice": "Normal"})
	require.NoError(t, err)
	require.Nil(t, result.Resolved)
}

func TestValidateVariantInputs(t *testing.T) {
	axes := sampleAxes()

	t.Run("valid", func(t *testing.T) {
		err := validateVariantInputs(axes, []VariantInput{
			{Value: "S / Less", Price: 45000, Stock: 10},
			{Value: "M / Normal", Price: 55000, Stock: 5},
		})
		require.NoError(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		err := validateVariantInputs(axes, nil)
		require.Error(t, err)
	})

	t.Run("valueDoesNotDecompose", func(t *testing.T) {
		err := validateVariantInputs(axes, []VariantInput{{Value: "S", Price: 1000, Stock: 1}})
		require.Error(t, err)
		require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})

	t.Run("duplicateValue", func(t *testing.T) {
		err := validateVariantInputs(axes, []VariantInput{
			{Value: "S / Less", Price: 1000, Stock: 1},
			{Value: "S / Less", Price: 2000, Stock: 2},
		})
		require.Error(t, err)
	})

	t.Run("negativePrice", func(t *testing.T) {
		err := validateVariantInputs(axes, []VariantInput{{Value: "S / Less", Price: -1, Stock: 1}})
		require.Error(t, err)
	})
}

func TestApplyProductUpdateTrimsAndCopies(t *testing.T) {
	product := &models.Product{Name: "old name", Slug: "old-slug"}

	name := "  Bubble Tea "
	images := []string{"a.jpg", "b.jpg"}
	axes := types.VariantAxes{{Name: "Size", Options: []string{"S", "M"}}}

	applyProductUpdate(product, UpdateProductInput{
		Name:   &name,
		Images: &images,
		Axes:   &axes,
	})

	require.Equal(t, "Bubble Tea", product.Name)
	require.Equal(t, "old-slug", product.Slug)
	require.Len(t, product.Images, 2)
	require.Equal(t, axes, product.Axes)

	// The copy must not alias the caller's slice.
	images[0] = "mutated.jpg"
	require.Equal(t, "a.jpg", product.Images[0])
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Trà Sữa Trân Châu", "tr-s-a-tr-n-ch-u"},
		{"Iced  Coffee!!", "iced-coffee"},
		{"  Combo #1  ", "combo-1"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}
