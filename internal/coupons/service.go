package coupons

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
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
)

// Service exposes back-office coupon management plus the storefront apply
// check.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CouponDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CouponDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Apply(ctx context.Context, code string) (*CouponDTO, error)
}

// CreateInput holds the validated payload to create a coupon.
type CreateInput struct {
	Code       string
	Type       enums.DiscountType
	Value      int64
	ExpiresAt  *time.Time
	UsageLimit *int
	IsActive   bool
}

// UpdateInput holds optional coupon mutations.
type UpdateInput struct {
	Code       *string
	Type       *enums.DiscountType
	Value      *int64
	ExpiresAt  *time.Time
	UsageLimit *int
	IsActive   *bool
}

type couponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, params pagination.Params) ([]models.Coupon, *string, error)
}

type eventNotifier interface {
	Publish(ctx context.Context, topic events.Topic, action, resourceID string)
}

type service struct {
	repo     couponRepository
	notifier eventNotifier
	now      func() time.Time
}

// NewService constructs the coupon service. The notifier may be nil when live
// refresh is not wired, e.g. in tests.
func NewService(repo couponRepository, notifier eventNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo, notifier: notifier, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CouponDTO, error) {
	if err := validateCouponValues(input.Type, input.Value, input.UsageLimit); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon := &models.Coupon{
		Code:       code,
		Type:       input.Type,
		Value:      input.Value,
		ExpiresAt:  input.ExpiresAt,
		UsageLimit: input.UsageLimit,
		IsActive:   input.IsActive,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert coupon")
	}
	s.notify(ctx, "created", created.ID)
	return NewCouponDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CouponDTO, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	applyCouponUpdate(coupon, input)
	if err := validateCouponValues(coupon.Type, coupon.Value, coupon.UsageLimit); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update coupon")
	}
	s.notify(ctx, "updated", updated.ID)
	return NewCouponDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	s.notify(ctx, "deleted", id)
	return nil
}

func (s *service) notify(ctx context.Context, action string, id uuid.UUID) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, events.TopicCoupon, action, id.String())
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return NewCouponDTO(coupon), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	result := &ListResult{Coupons: make([]CouponDTO, len(rows)), NextCursor: nextCursor}
	for i := range rows {
		result.Coupons[i] = *NewCouponDTO(&rows[i])
	}
	return result, nil
}

// Apply resolves a code (exact, case-sensitive) and validates redeemability.
// It does not consume a redemption; that happens at order creation.
func (s *service) Apply(ctx context.Context, code string) (*CouponDTO, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if err := ValidateAt(coupon, s.now()); err != nil {
		return nil, err
	}
	return NewCouponDTO(coupon), nil
}

func validateCouponValues(discountType enums.DiscountType, value int64, usageLimit *int) error {
	if !discountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if value <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if discountType == enums.DiscountTypePercent && value > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "percent discount cannot exceed 100")
	}
	if usageLimit != nil && *usageLimit <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive")
	}
	return nil
}

func applyCouponUpdate(coupon *models.Coupon, input UpdateInput) {
	if input.Code != nil {
		coupon.Code = strings.TrimSpace(*input.Code)
	}
	if input.Type != nil {
		coupon.Type = *input.Type
	}
	if input.Value != nil {
		coupon.Value = *input.Value
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = input.ExpiresAt
	}
	if input.UsageLimit != nil {
		coupon.UsageLimit = input.UsageLimit
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
}
