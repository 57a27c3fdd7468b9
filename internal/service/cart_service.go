package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
)

var (
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// ProductRepository interface for product data access
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService acknowledges add-to-cart requests against the catalog.
// Carts are not stored.
type CartService struct {
	productRepo ProductRepository
}

// NewCartService creates a new cart service
func NewCartService(productRepo ProductRepository) *CartService {
	return &CartService{
		productRepo: productRepo,
	}
}

// AddToCart validates the request and returns an acknowledgement.
// Quantity defaults to 1 when omitted.
func (s *CartService) AddToCart(ctx context.Context, req models.CartRequest) (*models.CartAck, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	productID, err := strconv.ParseInt(req.ProductID, 10, 64)
	if err != nil {
		return nil, ErrInvalidProduct
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, ErrInvalidProduct
	}

	return &models.CartAck{
		ID:       generateAckID(),
		Success:  true,
		Quantity: quantity,
		Product:  *product,
		Message:  fmt.Sprintf("%s bætt í körfu", product.Name),
	}, nil
}

// generateAckID generates a unique acknowledgement ID using UUID
func generateAckID() string {
	return uuid.New().String()
}
