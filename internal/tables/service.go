package tables

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/internal/events"
	"github.com/thanhngvn/foodcourt-backend/pkg/db"
	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
)

// TableDTO is the dining table payload.
type TableDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Seats       int       `json:"seats"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input is a validated table payload.
type Input struct {
	Name   string
	Seats  int
	Status enums.TableStatus
}

// Service manages dining tables for the back office.
type Service interface {
	List(ctx context.Context) ([]TableDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TableDTO, error)
	Create(ctx context.Context, input Input) (*TableDTO, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*TableDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.TableStatus) (*TableDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tableRepository interface {
	List(ctx context.Context) ([]models.DiningTable, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DiningTable, error)
	Create(ctx context.Context, table *models.DiningTable) (*models.DiningTable, error)
	Update(ctx context.Context, table *models.DiningTable) (*models.DiningTable, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventNotifier interface {
	Publish(ctx context.Context, topic events.Topic, action, resourceID string)
}

type service struct {
	repo     tableRepository
	notifier eventNotifier
}

// NewService constructs the dining table service. The notifier may be nil
// when live refresh is not wired, e.g. in tests.
func NewService(repo tableRepository, notifier eventNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("table repository required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) List(ctx context.Context) ([]TableDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tables")
	}
	out := make([]TableDTO, len(rows))
	for i := range rows {
		out[i] = *newDTO(&rows[i])
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TableDTO, error) {
	table, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDTO(table), nil
}

func (s *service) Create(ctx context.Context, input Input) (*TableDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = enums.TableStatusAvailable
	}

	created, err := s.repo.Create(ctx, &models.DiningTable{
		Name:   strings.TrimSpace(input.Name),
		Seats:  input.Seats,
		Status: status,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "table name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert table")
	}
	s.notify(ctx, "created", created.ID)
	return newDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*TableDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	table, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	table.Name = strings.TrimSpace(input.Name)
	table.Seats = input.Seats
	if input.Status != "" {
		table.Status = input.Status
	}

	updated, err := s.repo.Update(ctx, table)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "table name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update table")
	}
	s.notify(ctx, "updated", updated.ID)
	return newDTO(updated), nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.TableStatus) (*TableDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid table status")
	}
	table, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	table.Status = status
	updated, err := s.repo.Update(ctx, table)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update table status")
	}
	s.notify(ctx, "status_changed", updated.ID)
	return newDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete table")
	}
	s.notify(ctx, "deleted", id)
	return nil
}

func (s *service) notify(ctx context.Context, action string, id uuid.UUID) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, events.TopicTable, action, id.String())
	}
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.DiningTable, error) {
	table, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table")
	}
	return table, nil
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "table name is required")
	}
	if input.Seats < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "seats must be at least 1")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid table status")
	}
	return nil
}

func newDTO(table *models.DiningTable) *TableDTO {
	return &TableDTO{
		ID:          table.ID,
		Name:        table.Name,
		Seats:       table.Seats,
		Status:      table.Status.String(),
		StatusLabel: table.Status.Label(),
		CreatedAt:   table.CreatedAt,
		UpdatedAt:   table.UpdatedAt,
	}
}
