package service

import (
	"context"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
	"github.com/Lixing-Zhang/storefront-catalog/internal/repository"
)

// ProductService handles business logic for products
type ProductService struct {
	repo    repository.ProductRepository
	matcher *catalog.Matcher
	all     string
}

// NewProductService creates a new product service.
// allCategory is the category key that selects every product.
func NewProductService(repo repository.ProductRepository, matcher *catalog.Matcher, allCategory string) *ProductService {
	return &ProductService{
		repo:    repo,
		matcher: matcher,
		all:     allCategory,
	}
}

// ListProducts returns the products in category whose name, description or
// brand contains search. An empty category lists every category.
func (s *ProductService) ListProducts(ctx context.Context, category, search string) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if category == "" {
		category = s.all
	}
	return s.matcher.Select(products, category, s.matcher.NormalizeTerm(search)), nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}
