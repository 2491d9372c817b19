package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
)

type stubUserRepo struct {
	rows map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{rows: map[uuid.UUID]*models.User{}}
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, user *models.User) (*models.User, error) {
	clone := *user
	r.rows[user.ID] = &clone
	return user, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role enums.MemberRole) error {
	r.rows[id].Role = role
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.rows[id].IsActive = active
	return nil
}

func (r *stubUserRepo) List(_ context.Context, _ pagination.Params, _ ListFilters) ([]models.User, *string, error) {
	var out []models.User
	for _, row := range r.rows {
		out = append(out, *row)
	}
	return out, nil, nil
}

func seedUser(repo *stubUserRepo, role enums.MemberRole) uuid.UUID {
	id := uuid.New()
	repo.rows[id] = &models.User{
		ID:       id,
		Email:    id.String() + "@example.com",
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
	return id
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	adminID := seedUser(repo, enums.MemberRoleAdmin)
	customerID := seedUser(repo, enums.MemberRoleCustomer)

	updated, err := svc.ChangeRole(ctx, adminID, customerID, enums.MemberRoleStaff)
	require.NoError(t, err)
	require.Equal(t, "staff", updated.Role)
	require.Equal(t, enums.MemberRoleStaff, repo.rows[customerID].Role)
}

func TestChangeRoleRejectsSelf(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	adminID := seedUser(repo, enums.MemberRoleAdmin)

	_, err = svc.ChangeRole(ctx, adminID, adminID, enums.MemberRoleCustomer)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestChangeRoleRejectsInvalidRole(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	adminID := seedUser(repo, enums.MemberRoleAdmin)
	customerID := seedUser(repo, enums.MemberRoleCustomer)

	_, err = svc.ChangeRole(ctx, adminID, customerID, enums.MemberRole("superuser"))
	require.Error(t, err)
}

func TestSetActiveRejectsSelfDeactivation(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	adminID := seedUser(repo, enums.MemberRoleAdmin)

	_, err = svc.SetActive(ctx, adminID, adminID, false)
	require.Error(t, err)

	// Re-activating yourself is harmless and allowed.
	_, err = svc.SetActive(ctx, adminID, adminID, true)
	require.NoError(t, err)
}

func TestUpdateProfileValidatesName(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	userID := seedUser(repo, enums.MemberRoleCustomer)

	empty := "  "
	_, err = svc.UpdateProfile(ctx, userID, ProfileUpdateInput{FullName: &empty})
	require.Error(t, err)

	name := " Nguyen Van B "
	updated, err := svc.UpdateProfile(ctx, userID, ProfileUpdateInput{FullName: &name})
	require.NoError(t, err)
	require.Equal(t, "Nguyen Van B", updated.FullName)
}
