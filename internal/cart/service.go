package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
)

// Service exposes cart operations: line CRUD, quantity mutation with
// duplicate-submission guards, and checkout selection management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID, buyNowHint string) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error
	DeleteLines(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) error
	SetChecked(ctx context.Context, userID, lineID uuid.UUID, checked bool) error
	ToggleAllChecked(ctx context.Context, userID uuid.UUID) error
	CheckedItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	CompleteCheckout(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) error
}

// AddItemInput is a validated add-to-cart request. BuyNow pre-checks the
// resulting line for checkout.
type AddItemInput struct {
	VariantID uuid.UUID
	Quantity  int
	BuyNow    bool
}

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	FindByUserAndVariant(ctx context.Context, userID, variantID uuid.UUID) (*models.CartItem, error)
	Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type variantReader interface {
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

type service struct {
	repo        cartRepository
	variantRepo variantReader
	selections  *SelectionStore
}

// NewService constructs the cart service.
func NewService(repo cartRepository, variantRepo variantReader, selections *SelectionStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if variantRepo == nil {
		return nil, fmt.Errorf("variant reader required")
	}
	if selections == nil {
		return nil, fmt.Errorf("selection store required")
	}
	return &service{repo: repo, variantRepo: variantRepo, selections: selections}, nil
}

// GetCart lists the user's lines, merges stored checked flags (honoring a
// buy-now hint for lines not seen before), derives per-line disabled state
// from mutation locks, and persists the merged selection.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID, buyNowHint string) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	previous, err := s.selections.Load(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	lineIDs := make([]string, len(items))
	for i := range items {
		lineIDs[i] = items[i].ID.String()
	}
	merged := MergeSelections(previous, lineIDs, buyNowHint)
	if err := s.selections.Save(ctx, userID.String(), merged); err != nil {
		return nil, err
	}

	dto := &CartDTO{Lines: make([]LineDTO, len(items)), AllChecked: len(items) > 0}
	for i := range items {
		id := items[i].ID.String()
		disabled, err := s.selections.IsLineLocked(ctx, id)
		if err != nil {
			return nil, err
		}
		line := NewLineDTO(&items[i], merged[id], disabled)
		dto.Lines[i] = line
		if line.Checked {
			dto.CheckedSubtotal += line.LineTotal
		} else {
			dto.AllChecked = false
		}
	}
	return dto, nil
}

// AddItem inserts or tops up the line for a variant, clamping the resulting
// quantity to stock.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	variant, err := s.variantRepo.FindVariantByID(ctx, input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.Stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant is out of stock")
	}

	var lineID uuid.UUID
	existing, err := s.repo.FindByUserAndVariant(ctx, userID, input.VariantID)
	switch {
	case err == nil:
		newQuantity := ClampQuantity(existing.Quantity+input.Quantity, variant.Stock)
		if err := s.repo.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart quantity")
		}
		lineID = existing.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			UserID:    userID,
			VariantID: input.VariantID,
			Quantity:  ClampQuantity(input.Quantity, variant.Stock),
		}
		if _, err := s.repo.Upsert(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
		}
		lineID = item.ID
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if input.BuyNow {
		if err := s.SetChecked(ctx, userID, lineID, true); err != nil {
			return nil, err
		}
	}

	line, err := s.repo.FindByID(ctx, lineID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart line")
	}
	checked, err := s.isChecked(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	dto := NewLineDTO(line, checked, false)
	return &dto, nil
}

// UpdateQuantity mutates one line under its mutation lock. Requests are only
// accepted when the new quantity differs and lies within [1, stock]; a held
// lock means another mutation is in flight and the request is rejected.
func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error {
	item, err := s.repo.FindByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if item.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cart line does not belong to user")
	}

	stock := 0
	if item.Variant != nil {
		stock = item.Variant.Stock
	}
	if quantity < 1 || quantity > stock {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be between 1 and %d", stock))
	}
	if quantity == item.Quantity {
		return nil
	}

	acquired, err := s.selections.AcquireLineLock(ctx, lineID.String())
	if err != nil {
		return err
	}
	if !acquired {
		return pkgerrors.New(pkgerrors.CodeConflict, "a mutation for this line is already in flight")
	}
	defer func() {
		_ = s.selections.ReleaseLineLock(ctx, lineID.String())
	}()

	if err := s.repo.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart quantity")
	}
	return nil
}

// DeleteLines removes lines and their stored checked flags. Single and bulk
// deletion share this path.
func (s *service) DeleteLines(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) error {
	if len(lineIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line id is required")
	}
	if err := s.repo.DeleteByIDs(ctx, userID, lineIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart lines")
	}
	return s.dropSelections(ctx, userID, lineIDs)
}

// SetChecked flips one line's checkout flag.
func (s *service) SetChecked(ctx context.Context, userID, lineID uuid.UUID, checked bool) error {
	selections, err := s.selections.Load(ctx, userID.String())
	if err != nil {
		return err
	}
	selections[lineID.String()] = checked
	return s.selections.Save(ctx, userID.String(), selections)
}

// ToggleAllChecked flips every line to the negation of "all checked".
func (s *service) ToggleAllChecked(ctx context.Context, userID uuid.UUID) error {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	previous, err := s.selections.Load(ctx, userID.String())
	if err != nil {
		return err
	}
	lineIDs := make([]string, len(items))
	for i := range items {
		lineIDs[i] = items[i].ID.String()
	}
	merged := MergeSelections(previous, lineIDs, "")
	return s.selections.Save(ctx, userID.String(), ToggleAll(merged))
}

// CheckedItems returns the lines currently marked for checkout, with variant
// and product data loaded.
func (s *service) CheckedItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	selections, err := s.selections.Load(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	checked := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if selections[item.ID.String()] {
			checked = append(checked, item)
		}
	}
	return checked, nil
}

// CompleteCheckout removes purchased lines and their flags after an order is
// created.
func (s *service) CompleteCheckout(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) error {
	if err := s.repo.DeleteByIDs(ctx, userID, lineIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove purchased lines")
	}
	return s.dropSelections(ctx, userID, lineIDs)
}

func (s *service) isChecked(ctx context.Context, userID, lineID uuid.UUID) (bool, error) {
	selections, err := s.selections.Load(ctx, userID.String())
	if err != nil {
		return false, err
	}
	return selections[lineID.String()], nil
}

func (s *service) dropSelections(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) error {
	selections, err := s.selections.Load(ctx, userID.String())
	if err != nil {
		return err
	}
	for _, id := range lineIDs {
		delete(selections, id.String())
	}
	return s.selections.Save(ctx, userID.String(), selections)
}
