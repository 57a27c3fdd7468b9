// Package session keeps one catalog filter per storefront visitor.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
	"github.com/Lixing-Zhang/storefront-catalog/internal/page"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Session is one visitor's copy of the catalog page and its filter
type Session struct {
	ID string

	// mu serialises access to doc between the filter and page rendering.
	mu       sync.Mutex
	doc      *page.Document
	filter   *catalog.Filter
	lastSeen time.Time
}

// Filter returns the session's catalog filter
func (s *Session) Filter() *catalog.Filter {
	return s.filter
}

// SetSearch schedules a search and reflects raw in the search input
func (s *Session) SetSearch(raw string) {
	s.filter.SetSearchTerm(raw)

	s.mu.Lock()
	s.doc.SetSearchValue(raw)
	s.mu.Unlock()
}

// HTML renders the session's whole catalog page
func (s *Session) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.HTML()
}

// Grid renders only the session's product grid
func (s *Session) Grid() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Grid()
}

// Partial renders the product grid with the out-of-band no results message
func (s *Session) Partial() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Partial()
}

// lockedPresenter takes the session lock around every page update
type lockedPresenter struct {
	s *Session
}

func (p lockedPresenter) Hide(h any) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.doc.Hide(h)
}

func (p lockedPresenter) Show(h any, position int) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.doc.Show(h, position)
}

func (p lockedPresenter) SetEmpty(empty bool) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.doc.SetEmpty(empty)
}

func (p lockedPresenter) SetLoading(loading bool) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.doc.SetLoading(loading)
}

func (p lockedPresenter) SetActiveCategory(category string) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.doc.SetActiveCategory(category)
}

// Store holds the live sessions
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	page      []byte
	selectors page.Selectors
	opts      catalog.Options
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewStore creates a store whose sessions each parse their own copy of
// pageHTML. Sessions idle for longer than ttl are removed by Sweep.
func NewStore(pageHTML []byte, selectors page.Selectors, opts catalog.Options, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		sessions:  make(map[string]*Session),
		page:      pageHTML,
		selectors: selectors,
		opts:      opts,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Create starts a new session with the initial filter applied
func (st *Store) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := page.ParseBytes(st.page, st.selectors)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	// sessions start with an empty search term
	if v := doc.SearchValue(); v != "" {
		st.logger.Debug("clearing pre-filled catalog search", "value", v)
		doc.SetSearchValue("")
	}

	s := &Session{
		ID:       uuid.New().String(),
		doc:      doc,
		lastSeen: st.now(),
	}
	s.filter = catalog.New(doc, lockedPresenter{s: s}, st.opts, st.logger.With("session_id", s.ID))

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Debug("catalog session created", "session_id", s.ID)
	return s, nil
}

// Get returns a live session and marks it as used
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = st.now()
	return s, nil
}

// Delete removes a session and cancels its pending search
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.filter.Close()
	return nil
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many were removed
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.filter.Close()
	}
	if len(expired) > 0 {
		st.logger.Info("expired catalog sessions removed", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is done
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}
