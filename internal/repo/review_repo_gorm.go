package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/takatama/bottle-store/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) ListForProduct(ctx context.Context, productID int64) ([]domain.ProductReview, error) {
	var rows []domain.ProductReview
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.rate, reviews.comment, users.id AS user_id, users.nickname").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReviewRepo) RatesByProduct(ctx context.Context) (map[int64][]int, error) {
	var rows []struct {
		ProductID int64
		Rate      int
	}
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("product_id, rate").
		Order("id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	rates := make(map[int64][]int, len(rows))
	for _, row := range rows {
		rates[row.ProductID] = append(rates[row.ProductID], row.Rate)
	}
	return rates, nil
}

func (r *ReviewRepo) Find(ctx context.Context, productID, userID int64) (*domain.Review, error) {
	var rev domain.Review
	err := r.db.WithContext(ctx).
		First(&rev, "product_id = ? AND user_id = ?", productID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// Upsert relies on the store's native atomic upsert over the composite
// unique index, not select-then-insert.
func (r *ReviewRepo) Upsert(ctx context.Context, rev *domain.Review) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "comment"}),
		}).
		Create(rev).Error
}

func (r *ReviewRepo) Delete(ctx context.Context, productID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Delete(&domain.Review{}).Error
}
