package reviews

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
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
)

// ReviewDTO is one product review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Content   *string   `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResult is one review page with the product's rating summary.
type ListResult struct {
	Reviews    []ReviewDTO `json:"reviews"`
	Average    float64     `json:"average"`
	Count      int64       `json:"count"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// Input is a validated review payload.
type Input struct {
	Rating  int
	Content *string
}

// Service manages product reviews. A user holds at most one review per
// product; submitting again overwrites it.
type Service interface {
	ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ListResult, error)
	Submit(ctx context.Context, userID, productID uuid.UUID, input Input) (*ReviewDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, isBackOffice bool, reviewID uuid.UUID) error
}

type reviewRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, *string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summarize(ctx context.Context, productID uuid.UUID) (*Summary, error)
}

type productChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type eventNotifier interface {
	Publish(ctx context.Context, topic events.Topic, action, resourceID string)
}

type service struct {
	repo     reviewRepository
	products productChecker
	notifier eventNotifier
}

// NewService constructs the review service. The notifier may be nil when live
// refresh is not wired, e.g. in tests.
func NewService(repo reviewRepository, products productChecker, notifier eventNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products, notifier: notifier}, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	summary, err := s.repo.Summarize(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarize reviews")
	}

	result := &ListResult{
		Reviews:    make([]ReviewDTO, len(rows)),
		Average:    summary.Average,
		Count:      summary.Count,
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Reviews[i] = *newDTO(&rows[i])
	}
	return result, nil
}

func (s *service) Submit(ctx context.Context, userID, productID uuid.UUID, input Input) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if input.Content != nil && strings.TrimSpace(*input.Content) == "" {
		input.Content = nil
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	existing, err := s.repo.FindByProductAndUser(ctx, productID, userID)
	switch {
	case err == nil:
		existing.Rating = input.Rating
		existing.Content = input.Content
		updated, err := s.repo.Update(ctx, existing)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
		}
		s.notify(ctx, "updated", updated.ID)
		return newDTO(updated), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.repo.Create(ctx, &models.Review{
			ProductID: productID,
			UserID:    userID,
			Rating:    input.Rating,
			Content:   input.Content,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "review already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
		}
		s.notify(ctx, "created", created.ID)
		return newDTO(created), nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, isBackOffice bool, reviewID uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if !isBackOffice && review.UserID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "review does not belong to user")
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	s.notify(ctx, "deleted", reviewID)
	return nil
}

func (s *service) notify(ctx context.Context, action string, id uuid.UUID) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, events.TopicReview, action, id.String())
	}
}

func newDTO(review *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Content:   review.Content,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
