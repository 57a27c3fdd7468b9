package repository

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// InMemoryProductRepository implements ProductRepository over the catalog
// loaded from the storefront page. The data never changes after construction.
type InMemoryProductRepository struct {
	products []models.Product
	byID     map[int64]int
}

// NewInMemoryProductRepository creates a repository holding products in the given order
func NewInMemoryProductRepository(products []models.Product) *InMemoryProductRepository {
	r := &InMemoryProductRepository{
		products: make([]models.Product, len(products)),
		byID:     make(map[int64]int, len(products)),
	}
	for i, p := range products {
		// page handles belong to one parsed page and are not shared
		p.Handle = nil
		r.products[i] = p
		r.byID[p.ID] = i
	}
	return r
}

// GetAll returns all products in page order
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	i, exists := r.byID[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	product := r.products[i]
	return &product, nil
}
