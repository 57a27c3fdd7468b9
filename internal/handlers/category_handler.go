package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront-catalog/internal/config"
	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
)

// CategoryHandler serves the configured catalog categories
type CategoryHandler struct {
	categories *config.Categories
	logger     *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *config.Categories, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// CategoriesResponse lists the categories and the keys with special meaning
type CategoriesResponse struct {
	All        string            `json:"all"`
	Initial    string            `json:"initial"`
	Categories []models.Category `json:"categories"`
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, CategoriesResponse{
		All:        h.categories.All,
		Initial:    h.categories.Initial,
		Categories: h.categories.Categories,
	}, h.logger)
}
