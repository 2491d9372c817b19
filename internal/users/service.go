package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
)

// UserDTO is the account payload. Password hashes never leave the service.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResult carries one user page plus the next cursor.
type ListResult struct {
	Users      []UserDTO `json:"users"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// ProfileUpdateInput holds the self-service profile mutation.
type ProfileUpdateInput struct {
	FullName *string
	Phone    *string
}

// Service covers the self-service profile plus back-office account
// management.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*UserDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
	ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.MemberRole) (*UserDTO, error)
	SetActive(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*UserDTO, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.MemberRole) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.User, *string, error)
}

type service struct {
	repo userRepository
}

// NewService constructs the user service.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewUserDTO(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		user.FullName = name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	updated, err := s.repo.UpdateProfile(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update profile")
	}
	return NewUserDTO(updated), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	result := &ListResult{Users: make([]UserDTO, len(rows)), NextCursor: nextCursor}
	for i := range rows {
		result.Users[i] = *NewUserDTO(&rows[i])
	}
	return result, nil
}

// ChangeRole assigns a new role. Admins cannot demote themselves, so the
// platform always keeps at least the acting admin.
func (s *service) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.MemberRole) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if actorID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change own role")
	}
	user, err := s.load(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update role")
	}
	user.Role = role
	return NewUserDTO(user), nil
}

func (s *service) SetActive(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*UserDTO, error) {
	if actorID == targetID && !active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate own account")
	}
	user, err := s.load(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, targetID, active); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set active")
	}
	user.IsActive = active
	return NewUserDTO(user), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// NewUserDTO maps the persisted model, dropping the password hash.
func NewUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role.String(),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
