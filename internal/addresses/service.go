package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
)

// Service manages a user's delivery addresses.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input Input) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input Input) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

// Input is a validated address payload; create and update share it.
type Input struct {
	Recipient string
	Phone     string
	Province  string
	District  string
	Ward      string
	Street    string
	IsDefault bool
}

type addressRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) (*models.Address, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo addressRepository
}

// NewService constructs the address service.
func NewService(repo addressRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	out := make([]AddressDTO, len(rows))
	for i := range rows {
		out[i] = *NewAddressDTO(&rows[i])
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	address, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	return NewAddressDTO(address), nil
}

// Create inserts the address. The user's first address becomes the default
// regardless of the flag, so checkout always has a preselection candidate.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*AddressDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count addresses")
	}

	address := &models.Address{
		UserID:    userID,
		Recipient: strings.TrimSpace(input.Recipient),
		Phone:     strings.TrimSpace(input.Phone),
		Province:  strings.TrimSpace(input.Province),
		District:  strings.TrimSpace(input.District),
		Ward:      strings.TrimSpace(input.Ward),
		Street:    strings.TrimSpace(input.Street),
	}
	created, err := s.repo.Create(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert address")
	}

	if input.IsDefault || count == 0 {
		if err := s.repo.SetDefault(ctx, userID, created.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
		}
		created.IsDefault = true
	}
	return NewAddressDTO(created), nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input Input) (*AddressDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	address, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Recipient = strings.TrimSpace(input.Recipient)
	address.Phone = strings.TrimSpace(input.Phone)
	address.Province = strings.TrimSpace(input.Province)
	address.District = strings.TrimSpace(input.District)
	address.Ward = strings.TrimSpace(input.Ward)
	address.Street = strings.TrimSpace(input.Street)

	updated, err := s.repo.Update(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update address")
	}

	if input.IsDefault && !updated.IsDefault {
		if err := s.repo.SetDefault(ctx, userID, updated.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
		}
		updated.IsDefault = true
	}
	return NewAddressDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.SetDefault(ctx, userID, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to user")
	}
	return address, nil
}

func validateInput(input Input) error {
	required := map[string]string{
		"recipient": input.Recipient,
		"phone":     input.Phone,
		"province":  input.Province,
		"district":  input.District,
		"ward":      input.Ward,
		"street":    input.Street,
	}
	missing := map[string]string{}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing[field] = "is required"
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "address fields missing").WithDetails(missing)
	}
	return nil
}
