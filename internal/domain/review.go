package domain

import "context"

// Review holds one user's rating and comment for one product. The composite
// unique index makes "at most one review per (product, user)" a store-level
// guarantee rather than an application-logic promise, so two concurrent
// posts for the same pair cannot double-insert.
type Review struct {
	ID        int64  `gorm:"primaryKey"`
	ProductID int64  `gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	UserID    int64  `gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	Rate      int    `gorm:"not null"`
	Comment   string `gorm:"size:1024"`
}

func (Review) TableName() string { return "reviews" }

// ProductReview is a review joined with its author for display.
type ProductReview struct {
	Rate     int
	Comment  string
	UserID   int64
	Nickname string
}

type ReviewRepository interface {
	// ListForProduct returns reviews with author identity, insertion order.
	ListForProduct(ctx context.Context, productID int64) ([]ProductReview, error)
	// RatesByProduct returns every rating grouped by product id.
	RatesByProduct(ctx context.Context) (map[int64][]int, error)
	// Find returns (nil, nil) when the pair has no review.
	Find(ctx context.Context, productID, userID int64) (*Review, error)
	// Upsert atomically inserts or overwrites the (product, user) review.
	Upsert(ctx context.Context, r *Review) error
	// Delete removes the pair's review; deleting an absent pair is a no-op.
	Delete(ctx context.Context, productID, userID int64) error
}
