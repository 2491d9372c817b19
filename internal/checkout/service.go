package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/internal/addresses"
	"github.com/thanhngvn/foodcourt-backend/internal/cart"
	"github.com/thanhngvn/foodcourt-backend/internal/coupons"
	"github.com/thanhngvn/foodcourt-backend/internal/events"
	"github.com/thanhngvn/foodcourt-backend/internal/orders"
	"github.com/thanhngvn/foodcourt-backend/internal/products"
	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/db"
	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/square"
)

// SubmitInput is the validated checkout payload.
type SubmitInput struct {
	AddressID     uuid.UUID
	PaymentMethod enums.PaymentMethod
	CouponCode    string
	Note          *string
}

// Service is the checkout orchestrator: it prices the checked cart lines and
// turns them into an order in one transaction.
type Service interface {
	Preview(ctx context.Context, userID uuid.UUID, couponCode string) (*PreviewDTO, error)
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ResultDTO, error)
}

type cartManager interface {
	CheckedItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	CompleteCheckout(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) error
}

type addressReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	FindDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

type couponSource interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type paymentLinker interface {
	CreatePaymentLink(ctx context.Context, params square.PaymentLinkParams) (string, error)
}

type eventNotifier interface {
	Publish(ctx context.Context, topic events.Topic, action, resourceID string)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

type stockReserver interface {
	DecrementStock(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error)
}

type couponRedeemer interface {
	Redeem(ctx context.Context, id uuid.UUID) (bool, error)
}

type lineRemover interface {
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

// txStores bundles the transaction-scoped writers used while an order is
// being created.
type txStores struct {
	orders  orderWriter
	stock   stockReserver
	coupons couponRedeemer
	cart    lineRemover
}

// Repositories groups the persistence collaborators checkout writes through.
type Repositories struct {
	Addresses *addresses.Repository
	Coupons   *coupons.Repository
	Orders    *orders.Repository
	Products  *products.Repository
	Cart      *cart.Repository
}

func (r *Repositories) validate() error {
	if r.Addresses == nil || r.Coupons == nil || r.Orders == nil || r.Products == nil || r.Cart == nil {
		return fmt.Errorf("all checkout repositories required")
	}
	return nil
}

type service struct {
	tx        txRunner
	carts     cartManager
	addresses addressReader
	coupons   couponSource
	payments  paymentLinker
	notifier  eventNotifier
	pricing   config.PricingConfig
	stores    func(tx *gorm.DB) txStores
	now       func() time.Time
}

// NewService wires the orchestrator. The payment linker may be nil when no
// online payment provider is configured; online methods then fail cleanly.
func NewService(
	dbClient *db.Client,
	carts cartManager,
	repos Repositories,
	payments paymentLinker,
	notifier eventNotifier,
	pricingCfg config.PricingConfig,
) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if err := repos.validate(); err != nil {
		return nil, err
	}
	return &service{
		tx:        dbClient,
		carts:     carts,
		addresses: repos.Addresses,
		coupons:   repos.Coupons,
		payments:  payments,
		notifier:  notifier,
		pricing:   pricingCfg,
		stores: func(tx *gorm.DB) txStores {
			return txStores{
				orders:  repos.Orders.WithTx(tx),
				stock:   repos.Products.WithTx(tx),
				coupons: repos.Coupons.WithTx(tx),
				cart:    repos.Cart.WithTx(tx),
			}
		},
		now: time.Now,
	}, nil
}

// Preview prices the currently checked lines, optionally with a coupon code
// applied, and preselects the user's default address. Nothing is reserved or
// consumed.
func (s *service) Preview(ctx context.Context, userID uuid.UUID, couponCode string) (*PreviewDTO, error) {
	items, err := s.checkedItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.resolveCoupon(ctx, couponCode)
	if err != nil {
		return nil, err
	}

	preview := &PreviewDTO{
		Lines:  make([]PreviewLineDTO, len(items)),
		Totals: Price(pricedLines(items), coupon, s.pricing),
	}
	if coupon != nil {
		preview.CouponID = &coupon.ID
	}
	switch address, err := s.addresses.FindDefault(ctx, userID); {
	case err == nil:
		preview.Address = addresses.NewAddressDTO(address)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default address")
	}
	for i, item := range items {
		preview.Lines[i] = PreviewLineDTO{
			LineID:       item.ID,
			VariantID:    item.VariantID,
			ProductName:  item.Variant.Product.Name,
			VariantValue: item.Variant.Value,
			UnitPrice:    item.Variant.Price,
			Quantity:     item.Quantity,
			LineTotal:    item.Variant.Price * int64(item.Quantity),
		}
	}
	return preview, nil
}

// Submit turns the checked lines into an order. Stock decrements, coupon
// redemption, the order row with its item snapshots, and cart-line removal
// commit together; any failure, including the payment-link request for online
// methods, rolls the whole attempt back.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ResultDTO, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.PaymentMethod.IsOnline() && s.payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "online payment is not configured")
	}

	items, err := s.checkedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAddress(ctx, userID, input.AddressID); err != nil {
		return nil, err
	}
	coupon, err := s.resolveCoupon(ctx, input.CouponCode)
	if err != nil {
		return nil, err
	}

	totals := Price(pricedLines(items), coupon, s.pricing)

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		AddressID:     input.AddressID,
		Status:        enums.OrderStatusPending,
		PaymentMethod: input.PaymentMethod,
		Note:          normalizeNote(input.Note),
		Subtotal:      totals.Subtotal,
		Fee:           totals.Fee,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Items:         buildOrderItems(items),
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	lineIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		lineIDs[i] = item.ID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stores := s.stores(tx)

		for _, item := range items {
			reserved, err := stores.stock.DecrementStock(ctx, item.VariantID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserve stock")
			}
			if !reserved {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("not enough stock for %s (%s)", item.Variant.Product.Name, item.Variant.Value))
			}
		}

		if coupon != nil {
			redeemed, err := stores.coupons.Redeem(ctx, coupon.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: redeem coupon")
			}
			if !redeemed {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "coupon is no longer redeemable")
			}
		}

		if input.PaymentMethod.IsOnline() {
			url, err := s.payments.CreatePaymentLink(ctx, square.PaymentLinkParams{
				OrderRef:       order.ID.String(),
				Description:    fmt.Sprintf("FoodCourt order %s", order.ID),
				Amount:         order.Total,
				IdempotencyKey: fmt.Sprintf("order-%s", order.ID),
			})
			if err != nil {
				return err
			}
			order.PaymentURL = &url
		}

		if _, err := stores.orders.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
		}

		return stores.cart.DeleteByIDs(ctx, userID, lineIDs)
	})
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction")
	}

	// Selection-store cleanup is best effort once the order is committed; the
	// cart rows themselves are already gone.
	if err := s.carts.CompleteCheckout(ctx, userID, lineIDs); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, events.TopicOrder, "created", order.ID.String())
	}

	return &ResultDTO{Order: *orders.NewOrderDTO(order), PaymentURL: order.PaymentURL}, nil
}

func (s *service) checkedItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.carts.CheckedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no cart lines are selected for checkout")
	}
	for _, item := range items {
		if item.Variant == nil || item.Variant.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a selected item is no longer available")
		}
	}
	return items, nil
}

func (s *service) ensureAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	address, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another user")
	}
	return nil
}

func (s *service) resolveCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if err := coupons.ValidateAt(coupon, s.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

func pricedLines(items []models.CartItem) []PricedLine {
	lines := make([]PricedLine, len(items))
	for i, item := range items {
		lines[i] = PricedLine{UnitPrice: item.Variant.Price, Quantity: item.Quantity}
	}
	return lines
}

func buildOrderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	for i, item := range items {
		out[i] = models.OrderItem{
			VariantID:    item.VariantID,
			ProductName:  item.Variant.Product.Name,
			VariantValue: item.Variant.Value,
			UnitPrice:    item.Variant.Price,
			Quantity:     item.Quantity,
			Subtotal:     item.Variant.Price * int64(item.Quantity),
		}
	}
	return out
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
