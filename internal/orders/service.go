package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/internal/events"
	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
)

// Service exposes order history, detail, cancellation, and the back-office
// status workflow. Order creation lives in the checkout orchestrator.
type Service interface {
	Get(ctx context.Context, actorID uuid.UUID, backOffice bool, orderID uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
}

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, *string, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, *string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error)
}

type eventNotifier interface {
	Publish(ctx context.Context, topic events.Topic, action, resourceID string)
}

type service struct {
	repo     orderRepository
	notifier eventNotifier
}

// NewService constructs the order service. The notifier may be nil when live
// refresh is not wired, e.g. in tests.
func NewService(repo orderRepository, notifier eventNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

// Get loads one order. Customers only see their own; back-office roles see
// everything.
func (s *service) Get(ctx context.Context, actorID uuid.UUID, backOffice bool, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !backOffice && order.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildListResult(rows, nextCursor), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildListResult(rows, nextCursor), nil
}

// Cancel lets the owner withdraw an order that is still pending. Once the
// kitchen confirms, cancellation moves to the back office.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s and can no longer be cancelled", order.Status.Label()))
	}
	return s.transition(ctx, order, enums.OrderStatusCancelled, "cancelled")
}

// UpdateStatus applies a back-office transition through the state machine.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}
	return s.transition(ctx, order, next, "status_changed")
}

func (s *service) transition(ctx context.Context, order *models.Order, next enums.OrderStatus, action string) (*OrderDTO, error) {
	applied, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	if !applied {
		// Someone else transitioned the order between load and update.
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}
	order.Status = next
	if s.notifier != nil {
		s.notifier.Publish(ctx, events.TopicOrder, action, order.ID.String())
	}
	return NewOrderDTO(order), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func buildListResult(rows []models.Order, nextCursor *string) *ListResult {
	result := &ListResult{Orders: make([]OrderDTO, len(rows)), NextCursor: nextCursor}
	for i := range rows {
		result.Orders[i] = *NewOrderDTO(&rows[i])
	}
	return result
}
