package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
	"github.com/Lixing-Zhang/storefront-catalog/internal/middleware"
	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
	"github.com/Lixing-Zhang/storefront-catalog/internal/session"
)

// SessionCookie carries the visitor's catalog session id
const SessionCookie = "catalog_session"

type sessionStore interface {
	Create(ctx context.Context) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Delete(id string) error
}

// CatalogHandler serves the filtered catalog page and the session API
type CatalogHandler struct {
	sessions sessionStore
	logger   *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(sessions sessionStore, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// SessionResponse describes one catalog session
type SessionResponse struct {
	ID            string           `json:"id"`
	State         catalog.State    `json:"state"`
	Products      []models.Product `json:"products"`
	Total         int              `json:"total"`
	SearchPending bool             `json:"searchPending"`
}

// CategoryRequest is the body of PUT .../category
type CategoryRequest struct {
	Category string `json:"category"`
}

// SearchRequest is the body of PUT .../search
type SearchRequest struct {
	Term string `json:"term"`
}

// Page handles GET / and GET /catalog.
// The category and q query parameters update the visitor's filter before rendering;
// htmx requests receive only the product grid.
func (h *CatalogHandler) Page(w http.ResponseWriter, r *http.Request) {
	s, err := h.visitorSession(w, r)
	if err != nil {
		h.logger.Error("failed to create catalog session", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	query := r.URL.Query()
	if query.Has("category") {
		s.Filter().SetCategory(query.Get("category"))
	}
	if query.Has("q") {
		s.SetSearch(query.Get("q"))
		s.Filter().Flush()
	}

	var body string
	if middleware.IsHTMX(r.Context()) {
		body, err = s.Partial()
	} else {
		body, err = s.HTML()
	}
	if err != nil {
		h.logger.Error("failed to render catalog page", "session_id", s.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteHTML(w, http.StatusOK, body, h.logger)
}

func (h *CatalogHandler) visitorSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if s, err := h.sessions.Get(c.Value); err == nil {
			return s, nil
		}
	}

	s, err := h.sessions.Create(r.Context())
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// CreateSession handles POST /api/catalog/sessions
func (h *CatalogHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create catalog session", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, sessionResponse(s), h.logger)
}

// GetSession handles GET /api/catalog/sessions/{sessionId}
func (h *CatalogHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse(s), h.logger)
}

// DeleteSession handles DELETE /api/catalog/sessions/{sessionId}
func (h *CatalogHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")
	if err := h.sessions.Delete(id); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found", h.logger)
			return
		}
		h.logger.Error("failed to delete catalog session", "session_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCategory handles PUT /api/catalog/sessions/{sessionId}/category
func (h *CatalogHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode category request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	s.Filter().SetCategory(req.Category)
	WriteJSON(w, http.StatusOK, sessionResponse(s), h.logger)
}

// SetSearch handles PUT /api/catalog/sessions/{sessionId}/search.
// The search is applied once the debounce window closes, so the
// response is 202 with the filter still showing the previous result.
func (h *CatalogHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode search request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	s.SetSearch(req.Term)
	WriteJSON(w, http.StatusAccepted, sessionResponse(s), h.logger)
}

// FlushSearch handles POST /api/catalog/sessions/{sessionId}/search/flush
func (h *CatalogHandler) FlushSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	s.Filter().Flush()
	WriteJSON(w, http.StatusOK, sessionResponse(s), h.logger)
}

// LoadMore handles POST /api/catalog/sessions/{sessionId}/load-more.
// It advances the page counter; the visible products do not change.
func (h *CatalogHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	s.Filter().LoadMore()
	WriteJSON(w, http.StatusOK, sessionResponse(s), h.logger)
}

func (h *CatalogHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionId")
	s, err := h.sessions.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			h.logger.Info("catalog session not found", "session_id", id)
			WriteError(w, http.StatusNotFound, "Session not found", h.logger)
			return nil, false
		}
		h.logger.Error("failed to get catalog session", "session_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return nil, false
	}
	return s, true
}

func sessionResponse(s *session.Session) SessionResponse {
	snap := s.Filter().Snapshot()
	return SessionResponse{
		ID:            s.ID,
		State:         snap.State,
		Products:      snap.Products,
		Total:         snap.Total,
		SearchPending: snap.SearchPending,
	}
}
