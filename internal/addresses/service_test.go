package addresses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
)

type stubAddressRepo struct {
	rows map[uuid.UUID]*models.Address
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{rows: map[uuid.UUID]*models.Address{}}
}

func (r *stubAddressRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *stubAddressRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Address, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *stubAddressRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *stubAddressRepo) Create(_ context.Context, address *models.Address) (*models.Address, error) {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	clone := *address
	r.rows[address.ID] = &clone
	return address, nil
}

func (r *stubAddressRepo) Update(_ context.Context, address *models.Address) (*models.Address, error) {
	stored, ok := r.rows[address.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *address
	clone.IsDefault = stored.IsDefault
	r.rows[address.ID] = &clone
	return address, nil
}

func (r *stubAddressRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *stubAddressRepo) SetDefault(_ context.Context, userID, addressID uuid.UUID) error {
	for _, row := range r.rows {
		if row.UserID == userID {
			row.IsDefault = row.ID == addressID
		}
	}
	return nil
}

func validInput() Input {
	return Input{
		Recipient: "Nguyen Van A",
		Phone:     "0900000000",
		Province:  "Ho Chi Minh",
		District:  "District 1",
		Ward:      "Ben Nghe",
		Street:    "12 Le Loi",
	}
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	ctx := context.Background()
	repo := newStubAddressRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validInput())
	require.NoError(t, err)
	require.True(t, created.IsDefault)
}

func TestCreateSecondAddressKeepsExistingDefault(t *testing.T) {
	ctx := context.Background()
	repo := newStubAddressRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, validInput())
	require.NoError(t, err)

	second, err := svc.Create(ctx, userID, validInput())
	require.NoError(t, err)
	require.False(t, second.IsDefault)
	require.True(t, repo.rows[first.ID].IsDefault)
}

func TestSetDefaultMovesFlag(t *testing.T) {
	ctx := context.Background()
	repo := newStubAddressRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, validInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, userID, second.ID))
	require.False(t, repo.rows[first.ID].IsDefault)
	require.True(t, repo.rows[second.ID].IsDefault)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(newStubAddressRepo())
	require.NoError(t, err)

	input := validInput()
	input.Phone = " "
	_, err = svc.Create(ctx, uuid.New(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Contains(t, details, "phone")
}

func TestOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	repo := newStubAddressRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.Create(ctx, uuid.New(), validInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), created.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
