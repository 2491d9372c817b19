package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/pagination"
)

type stubReviewRepo struct {
	rows map[uuid.UUID]*models.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{rows: map[uuid.UUID]*models.Review{}}
}

func (r *stubReviewRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ pagination.Params) ([]models.Review, *string, error) {
	var out []models.Review
	for _, row := range r.rows {
		if row.ProductID == productID {
			out = append(out, *row)
		}
	}
	return out, nil, nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *stubReviewRepo) FindByProductAndUser(_ context.Context, productID, userID uuid.UUID) (*models.Review, error) {
	for _, row := range r.rows {
		if row.ProductID == productID && row.UserID == userID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReviewRepo) Create(_ context.Context, review *models.Review) (*models.Review, error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	clone := *review
	r.rows[review.ID] = &clone
	return review, nil
}

func (r *stubReviewRepo) Update(_ context.Context, review *models.Review) (*models.Review, error) {
	clone := *review
	r.rows[review.ID] = &clone
	return review, nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *stubReviewRepo) Summarize(_ context.Context, productID uuid.UUID) (*Summary, error) {
	var sum, count int64
	for _, row := range r.rows {
		if row.ProductID == productID {
			sum += int64(row.Rating)
			count++
		}
	}
	summary := &Summary{Count: count}
	if count > 0 {
		summary.Average = float64(sum) / float64(count)
	}
	return summary, nil
}

type stubProductChecker struct {
	known map[uuid.UUID]bool
}

func (c *stubProductChecker) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if !c.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id}, nil
}

func newTestService(t *testing.T, productIDs ...uuid.UUID) (Service, *stubReviewRepo) {
	t.Helper()
	repo := newStubReviewRepo()
	checker := &stubProductChecker{known: map[uuid.UUID]bool{}}
	for _, id := range productIDs {
		checker.known[id] = true
	}
	svc, err := NewService(repo, checker, nil)
	require.NoError(t, err)
	return svc, repo
}

func TestSubmitCreatesThenOverwrites(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	svc, repo := newTestService(t, productID)
	userID := uuid.New()

	created, err := svc.Submit(ctx, userID, productID, Input{Rating: 4})
	require.NoError(t, err)
	require.Equal(t, 4, created.Rating)

	updated, err := svc.Submit(ctx, userID, productID, Input{Rating: 2})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, 2, repo.rows[created.ID].Rating)
	require.Len(t, repo.rows, 1)
}

func TestSubmitValidatesRating(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	svc, _ := newTestService(t, productID)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(ctx, uuid.New(), productID, Input{Rating: rating})
		require.Error(t, err)
		require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestSubmitUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Submit(ctx, uuid.New(), uuid.New(), Input{Rating: 5})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	svc, _ := newTestService(t, productID)
	userID := uuid.New()

	created, err := svc.Submit(ctx, userID, productID, Input{Rating: 5})
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), false, created.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	// Back office may delete any review.
	require.NoError(t, svc.Delete(ctx, uuid.New(), true, created.ID))
}
