package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// sessionCounter reports how many catalog sessions are live
type sessionCounter interface {
	Len() int
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger   *slog.Logger
	sessions sessionCounter
	products int
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *slog.Logger, sessions sessionCounter, products int) *HealthHandler {
	return &HealthHandler{
		logger:   logger,
		sessions: sessions,
		products: products,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Products  int       `json:"products"`
	Sessions  int       `json:"sessions"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Products:  h.products,
	}
	if h.sessions != nil {
		response.Sessions = h.sessions.Len()
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
