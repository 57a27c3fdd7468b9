package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
)

func seed() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Red Paint", Category: "a", Handle: "h1"},
		{ID: 2, Name: "Blue Brush", Category: "b", Handle: "h2"},
		{ID: 3, Name: "Green Paint", Category: "a", Handle: "h3"},
	}
}

func TestInMemoryProductRepository_GetAll(t *testing.T) {
	repo := NewInMemoryProductRepository(seed())

	products, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}

	for i, p := range products {
		if p.ID != int64(i+1) {
			t.Errorf("expected page order, got id %d at position %d", p.ID, i)
		}
		if p.Handle != nil {
			t.Errorf("expected handle to be dropped for product %d", p.ID)
		}
	}

	// callers must not be able to modify the stored catalog
	products[0].Name = "changed"
	again, _ := repo.GetAll(context.Background())
	if again[0].Name != "Red Paint" {
		t.Errorf("expected stored product to be unchanged, got %s", again[0].Name)
	}
}

func TestInMemoryProductRepository_GetByID(t *testing.T) {
	repo := NewInMemoryProductRepository(seed())

	product, err := repo.GetByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if product.Name != "Blue Brush" {
		t.Errorf("expected 'Blue Brush', got %s", product.Name)
	}

	_, err = repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestInMemoryProductRepository_Empty(t *testing.T) {
	repo := NewInMemoryProductRepository(nil)

	products, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected no products, got %d", len(products))
	}
}
