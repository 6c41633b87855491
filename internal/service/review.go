package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/takatama/bottle-store/internal/core/session"
	"github.com/takatama/bottle-store/internal/domain"
)

// ErrRateOutOfRange rejects ratings outside [1,5]; they are never clamped.
var ErrRateOutOfRange = errors.New("rate out of range")

// ReviewService scopes every mutation to the acting identity. Methods take
// a session.Identity rather than a raw user id, so a caller-supplied id from
// a request body can never reach a write.
type ReviewService struct {
	reviews domain.ReviewRepository
}

func NewReviewService(reviews domain.ReviewRepository) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// ForProduct returns the product's reviews with author identity plus the
// aggregate derived from them.
func (s *ReviewService) ForProduct(ctx context.Context, productID int64) ([]domain.ProductReview, domain.Aggregate, error) {
	rows, err := s.reviews.ListForProduct(ctx, productID)
	if err != nil {
		return nil, domain.Aggregate{}, fmt.Errorf("list reviews: %w", err)
	}
	rates := make([]int, 0, len(rows))
	for _, r := range rows {
		rates = append(rates, r.Rate)
	}
	return rows, domain.AggregateRatings(rates), nil
}

// Own returns the acting user's review for the product, (nil, nil) if none.
func (s *ReviewService) Own(ctx context.Context, id session.Identity, productID int64) (*domain.Review, error) {
	rev, err := s.reviews.Find(ctx, productID, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("find own review: %w", err)
	}
	return rev, nil
}

// Post inserts or overwrites the acting user's review for the product.
func (s *ReviewService) Post(ctx context.Context, id session.Identity, productID int64, rate int, comment string) error {
	if rate < 1 || rate > 5 {
		return ErrRateOutOfRange
	}
	rev := &domain.Review{
		ProductID: productID,
		UserID:    id.UserID,
		Rate:      rate,
		Comment:   comment,
	}
	if err := s.reviews.Upsert(ctx, rev); err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}

// Remove deletes the acting user's review for the product; removing an
// absent review succeeds without effect.
func (s *ReviewService) Remove(ctx context.Context, id session.Identity, productID int64) error {
	if err := s.reviews.Delete(ctx, productID, id.UserID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
