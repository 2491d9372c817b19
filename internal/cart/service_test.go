package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
)

type stubRepo struct {
	items map[uuid.UUID]*models.CartItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: map[uuid.UUID]*models.CartItem{}}
}

func (r *stubRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CartItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *stubRepo) FindByUserAndVariant(_ context.Context, userID, variantID uuid.UUID) (*models.CartItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.VariantID == variantID {
			clone := *item
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) Upsert(_ context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	clone := *item
	r.items[item.ID] = &clone
	return item, nil
}

func (r *stubRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	return nil
}

func (r *stubRepo) DeleteByIDs(_ context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if item, ok := r.items[id]; ok && item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

type stubVariantReader struct {
	variants map[uuid.UUID]*models.ProductVariant
}

func (r *stubVariantReader) FindVariantByID(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	variant, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return variant, nil
}

func newTestService(t *testing.T, variants ...*models.ProductVariant) (Service, *stubRepo, *SelectionStore) {
	t.Helper()
	repo := newStubRepo()
	reader := &stubVariantReader{variants: map[uuid.UUID]*models.ProductVariant{}}
	for _, v := range variants {
		reader.variants[v.ID] = v
	}
	selections := NewSelectionStore(newMemoryBackend())
	svc, err := NewService(repo, reader, selections)
	require.NoError(t, err)
	return svc, repo, selections
}

func testVariant(stock int) *models.ProductVariant {
	return &models.ProductVariant{
		ID:    uuid.New(),
		Value: "M / Normal",
		Price: 55000,
		Stock: stock,
		Product: &models.Product{
			ID:   uuid.New(),
			Name: "Milk Tea",
			Slug: "milk-tea",
		},
	}
}

func seedLine(t *testing.T, repo *stubRepo, userID uuid.UUID, variant *models.ProductVariant, quantity int) uuid.UUID {
	t.Helper()
	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		VariantID: variant.ID,
		Quantity:  quantity,
		Variant:   variant,
	}
	repo.items[item.ID] = item
	return item.ID
}

func TestAddItemCreatesLine(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(10)
	svc, repo, _ := newTestService(t, variant)
	userID := uuid.New()

	line, err := svc.AddItem(ctx, userID, AddItemInput{VariantID: variant.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 3, line.Quantity)
	require.False(t, line.Checked)
	require.Len(t, repo.items, 1)
}

func TestAddItemTopsUpAndClamps(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(5)
	svc, repo, _ := newTestService(t, variant)
	userID := uuid.New()
	lineID := seedLine(t, repo, userID, variant, 4)

	_, err := svc.AddItem(ctx, userID, AddItemInput{VariantID: variant.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 5, repo.items[lineID].Quantity)
}

func TestAddItemRejectsOutOfStock(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(0)
	svc, _, _ := newTestService(t, variant)

	_, err := svc.AddItem(ctx, uuid.New(), AddItemInput{VariantID: variant.ID, Quantity: 1})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddItemBuyNowPreChecksLine(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(10)
	svc, _, _ := newTestService(t, variant)
	userID := uuid.New()

	line, err := svc.AddItem(ctx, userID, AddItemInput{VariantID: variant.ID, Quantity: 1, BuyNow: true})
	require.NoError(t, err)
	require.True(t, line.Checked)
}

func TestUpdateQuantityValidatesRange(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(5)
	svc, repo, _ := newTestService(t, variant)
	userID := uuid.New()
	lineID := seedLine(t, repo, userID, variant, 2)

	require.Error(t, svc.UpdateQuantity(ctx, userID, lineID, 0))
	require.Error(t, svc.UpdateQuantity(ctx, userID, lineID, 6))
	require.NoError(t, svc.UpdateQuantity(ctx, userID, lineID, 4))
	require.Equal(t, 4, repo.items[lineID].Quantity)
}

func TestUpdateQuantitySameValueIsNoOp(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(5)
	svc, repo, _ := newTestService(t, variant)
	userID := uuid.New()
	lineID := seedLine(t, repo, userID, variant, 2)

	require.NoError(t, svc.UpdateQuantity(ctx, userID, lineID, 2))
	require.Equal(t, 2, repo.items[lineID].Quantity)
}

func TestUpdateQuantityRejectsConcurrentMutation(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(5)
	svc, repo, selections := newTestService(t, variant)
	userID := uuid.New()
	lineID := seedLine(t, repo, userID, variant, 2)

	acquired, err := selections.AcquireLineLock(ctx, lineID.String())
	require.NoError(t, err)
	require.True(t, acquired)

	err = svc.UpdateQuantity(ctx, userID, lineID, 3)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestUpdateQuantityRejectsForeignLine(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(5)
	svc, repo, _ := newTestService(t, variant)
	lineID := seedLine(t, repo, uuid.New(), variant, 2)

	err := svc.UpdateQuantity(ctx, uuid.New(), lineID, 3)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestGetCartMergesBuyNowHint(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(5)
	svc, repo, _ := newTestService(t, variant)
	userID := uuid.New()
	lineID := seedLine(t, repo, userID, variant, 2)

	dto, err := svc.GetCart(ctx, userID, lineID.String())
	require.NoError(t, err)
	require.Len(t, dto.Lines, 1)
	require.True(t, dto.Lines[0].Checked)
	require.False(t, dto.Lines[0].Disabled)
	require.Equal(t, int64(110000), dto.CheckedSubtotal)

	// Later fetches keep the flag without the hint.
	dto, err = svc.GetCart(ctx, userID, "")
	require.NoError(t, err)
	require.True(t, dto.Lines[0].Checked)
}

func TestDeleteLinesDropsSelections(t *testing.T) {
	ctx := context.Background()
	variant := testVariant(5)
	svc, repo, selections := newTestService(t, variant)
	userID := uuid.New()
	lineID := seedLine(t, repo, userID, variant, 2)
	require.NoError(t, svc.SetChecked(ctx, userID, lineID, true))

	require.NoError(t, svc.DeleteLines(ctx, userID, []uuid.UUID{lineID}))
	require.Empty(t, repo.items)

	stored, err := selections.Load(ctx, userID.String())
	require.NoError(t, err)
	require.NotContains(t, stored, lineID.String())
}

func TestCheckedItemsFiltersUnchecked(t *testing.T) {
	ctx := context.Background()
	variantA := testVariant(5)
	variantB := testVariant(5)
	svc, repo, _ := newTestService(t, variantA, variantB)
	userID := uuid.New()
	lineA := seedLine(t, repo, userID, variantA, 1)
	seedLine(t, repo, userID, variantB, 2)

	require.NoError(t, svc.SetChecked(ctx, userID, lineA, true))

	checked, err := svc.CheckedItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, checked, 1)
	require.Equal(t, lineA, checked[0].ID)
}
