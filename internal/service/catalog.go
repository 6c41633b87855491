package service

import (
	"context"
	"fmt"

	"github.com/takatama/bottle-store/internal/domain"
)

type CatalogService struct {
	products domain.ProductRepository
	reviews  domain.ReviewRepository
}

func NewCatalogService(products domain.ProductRepository, reviews domain.ReviewRepository) *CatalogService {
	return &CatalogService{products: products, reviews: reviews}
}

// List returns products (optionally filtered by name substring), each with
// its aggregate rating recomputed from the current review set.
func (s *CatalogService) List(ctx context.Context, filter string) ([]domain.RatedProduct, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	rates, err := s.reviews.RatesByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	out := make([]domain.RatedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, domain.RatedProduct{
			Product: p,
			Rating:  domain.AggregateRatings(rates[p.ID]),
		})
	}
	return out, nil
}

// Find returns (nil, nil) for an unknown product id; the caller turns that
// into a client error, not a crash.
func (s *CatalogService) Find(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}
