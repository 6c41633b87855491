package domain

import "context"

// Product is read-only from the web layer; rows come from provisioning.
type Product struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:1024"`
	ImageURL    string `gorm:"size:512"`
	PriceYen    int64  `gorm:"not null"`
}

func (Product) TableName() string { return "products" }

// RatedProduct is a product annotated with its aggregate rating, recomputed
// from the current review set on every read.
type RatedProduct struct {
	Product
	Rating Aggregate
}

type ProductRepository interface {
	// List returns all products, or those whose name contains filter.
	List(ctx context.Context, filter string) ([]Product, error)
	// Find returns (nil, nil) when the product does not exist.
	Find(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
}
