package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/api/responses"
	"github.com/thanhngvn/foodcourt-backend/api/validators"
	productsvc "github.com/thanhngvn/foodcourt-backend/internal/products"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
	"github.com/thanhngvn/foodcourt-backend/pkg/types"
)

type variantAxisRequest struct {
	Name    string   `json:"name" validate:"required,max=40"`
	Options []string `json:"options" validate:"required,min=1,dive,required,max=60"`
}

type variantRequest struct {
	Value string  `json:"value" validate:"required,max=200"`
	Price int64   `json:"price" validate:"required,min=1"`
	Stock int     `json:"stock" validate:"min=0"`
	Image *string `json:"image,omitempty" validate:"omitempty,max=500"`
}

type createProductRequest struct {
	CategoryID  string               `json:"category_id" validate:"required,uuid"`
	Name        string               `json:"name" validate:"required,max=200"`
	Slug        string               `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description *string              `json:"description,omitempty"`
	BasePrice   int64                `json:"base_price" validate:"required,min=1"`
	Images      []string             `json:"images,omitempty" validate:"omitempty,dive,max=500"`
	Axes        []variantAxisRequest `json:"axes" validate:"required,min=1,dive"`
	Variants    []variantRequest     `json:"variants" validate:"required,min=1,dive"`
	IsActive    *bool                `json:"is_active,omitempty"`
}

type updateProductRequest struct {
	CategoryID  *string               `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name        *string               `json:"name,omitempty" validate:"omitempty,max=200"`
	Slug        *string               `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description *string               `json:"description,omitempty"`
	BasePrice   *int64                `json:"base_price,omitempty" validate:"omitempty,min=1"`
	Images      *[]string             `json:"images,omitempty"`
	Axes        *[]variantAxisRequest `json:"axes,omitempty" validate:"omitempty,min=1,dive"`
	Variants    *[]variantRequest     `json:"variants,omitempty" validate:"omitempty,min=1,dive"`
	IsActive    *bool                 `json:"is_active,omitempty"`
}

type resolveSelectionRequest struct {
	Selections map[string]string `json:"selections" validate:"required"`
}

func (r createProductRequest) toInput() (productsvc.CreateProductInput, error) {
	categoryID, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}

	input := productsvc.CreateProductInput{
		CategoryID:  categoryID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		Images:      r.Images,
		Axes:        toAxes(r.Axes),
		Variants:    toVariantInputs(r.Variants),
		IsActive:    true,
	}
	if r.IsActive != nil {
		input.IsActive = *r.IsActive
	}
	return input, nil
}

func (r updateProductRequest) toInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		Images:      r.Images,
		IsActive:    r.IsActive,
	}
	if r.CategoryID != nil {
		categoryID, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &categoryID
	}
	if r.Axes != nil {
		axes := toAxes(*r.Axes)
		input.Axes = &axes
	}
	if r.Variants != nil {
		variants := toVariantInputs(*r.Variants)
		input.Variants = &variants
	}
	return input, nil
}

func toAxes(reqs []variantAxisRequest) types.VariantAxes {
	axes := make(types.VariantAxes, len(reqs))
	for i, axis := range reqs {
		axes[i] = types.VariantAxis{Name: axis.Name, Options: axis.Options}
	}
	return axes
}

func toVariantInputs(reqs []variantRequest) []productsvc.VariantInput {
	variants := make([]productsvc.VariantInput, len(reqs))
	for i, variant := range reqs {
		variants[i] = productsvc.VariantInput{
			Value: variant.Value,
			Price: variant.Price,
			Stock: variant.Stock,
			Image: variant.Image,
		}
	}
	return variants
}

// ProductList serves the paginated catalog. The storefront variant hides
// inactive products; the back office sees everything.
func ProductList(svc productsvc.Service, logg *logger.Logger, activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Search:     validators.SanitizeString(r.URL.Query().Get("search"), 120),
			ActiveOnly: activeOnly,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
			categoryID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category_id must be a uuid"))
				return
			}
			filters.CategoryID = &categoryID
		}

		result, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ProductDetailBySlug(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		product, err := svc.GetProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductResolve maps an axis selection to the matching variant, reporting
// which axes are still unselected.
func ProductResolve(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resolveSelectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ResolveSelection(r.Context(), productID, productsvc.Selections(payload.Selections))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
