package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
	"github.com/Lixing-Zhang/storefront-catalog/internal/service"
)

// CartHandler handles add-to-cart requests
type CartHandler struct {
	cartService *service.CartService
	log         *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		log:         log,
	}
}

// AddToCart handles POST /api/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req models.CartRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode cart request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	ack, err := h.cartService.AddToCart(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			WriteError(w, http.StatusBadRequest, "Quantity must be positive", h.log)
		case errors.Is(err, service.ErrInvalidProduct):
			WriteError(w, http.StatusBadRequest, "Invalid product", h.log)
		default:
			h.log.Error("failed to add to cart", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, ack, h.log)
	h.log.Info("product added to cart", "ack_id", ack.ID, "product_id", ack.Product.ID, "quantity", ack.Quantity)
}
