package catalog

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
)

// State is the filter state of one catalog view
type State struct {
	ActiveCategory string `json:"activeCategory"`
	SearchTerm     string `json:"searchTerm"`
	PageSize       int    `json:"pageSize"`
	// CurrentPage is tracked but never used to truncate results.
	CurrentPage int `json:"currentPage"`
}

// Snapshot is a point-in-time copy of a filter's state and result
type Snapshot struct {
	State         State            `json:"state"`
	Visible       []int64          `json:"visible"`
	Products      []models.Product `json:"products"`
	Total         int              `json:"total"`
	SearchPending bool             `json:"searchPending"`
}

// Filter holds the immutable product list of one page and derives
// the visible subset from the active category and search term.
type Filter struct {
	mu        sync.Mutex
	opts      Options
	matcher   *Matcher
	presenter Presenter
	logger    *slog.Logger
	debounce  *Debouncer

	products []models.Product
	known    map[string]bool
	state    State
	visible  []models.Product
}

// Load builds one product record per rendered item, in page order.
// Ids are 1-based positions. An empty source yields an empty slice.
func Load(src Source, opts Options) []models.Product {
	opts = opts.withDefaults()
	if src == nil {
		return []models.Product{}
	}

	items := src.Items()
	products := make([]models.Product, 0, len(items))
	for i, item := range items {
		id := int64(i + 1)

		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = opts.CatchAllCategory
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = fmt.Sprintf(opts.FallbackName, id)
		}
		brand := strings.TrimSpace(item.Brand)
		if brand == "" {
			brand = opts.DefaultBrand
		}

		products = append(products, models.Product{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(item.Description),
			Price:       item.Price,
			Category:    category,
			Brand:       brand,
			Image:       item.Image,
			Handle:      item.Handle,
		})
	}
	return products
}

// New loads the catalog from src and applies the initial filter.
// The search term always starts empty. A nil presenter discards all
// presentation updates.
func New(src Source, presenter Presenter, opts Options, logger *slog.Logger) *Filter {
	opts = opts.withDefaults()
	if presenter == nil {
		presenter = nopPresenter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &Filter{
		opts:      opts,
		matcher:   NewMatcher(opts),
		presenter: presenter,
		logger:    logger,
		debounce:  NewDebouncer(opts.SearchDebounce),
		products:  Load(src, opts),
		known:     make(map[string]bool),
		state: State{
			ActiveCategory: opts.InitialCategory,
			PageSize:       opts.PageSize,
			CurrentPage:    1,
		},
	}

	if src != nil {
		for _, c := range src.Categories() {
			f.known[c] = true
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.guard("set active category", func() { f.presenter.SetActiveCategory(f.state.ActiveCategory) })
	f.recomputeLocked()

	f.logger.Debug("catalog filter ready",
		"products", len(f.products),
		"category", f.state.ActiveCategory,
	)
	return f
}

// Products returns every loaded record in page order
func (f *Filter) Products() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...)
}

// Matcher returns the predicate used by this filter
func (f *Filter) Matcher() *Matcher {
	return f.matcher
}

// State returns a copy of the current filter state
func (f *Filter) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Visible returns the most recently computed visible records
func (f *Filter) Visible() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.visible...)
}

// Snapshot returns the current state together with the visible records,
// all read under one lock.
func (f *Filter) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int64, len(f.visible))
	for i, p := range f.visible {
		ids[i] = p.ID
	}
	return Snapshot{
		State:         f.state,
		Visible:       ids,
		Products:      append([]models.Product{}, f.visible...),
		Total:         len(f.products),
		SearchPending: f.debounce.Pending(),
	}
}

// SetCategory switches the active category and recomputes immediately.
// Unknown categories are accepted and simply match nothing.
func (f *Filter) SetCategory(category string) {
	pending := f.debounce.Pending()

	f.mu.Lock()
	defer f.mu.Unlock()

	if category != f.opts.AllCategory && len(f.known) > 0 && !f.known[category] {
		f.logger.Debug("unknown catalog category selected", "category", category)
	}

	f.guard("show loading", func() { f.presenter.SetLoading(true) })
	f.state.ActiveCategory = category
	f.state.CurrentPage = 1
	f.guard("set active category", func() { f.presenter.SetActiveCategory(category) })
	f.recomputeLocked()
	if !pending {
		f.guard("hide loading", func() { f.presenter.SetLoading(false) })
	}
}

// SetSearchTerm schedules a search for raw. Calls within the debounce
// window are coalesced and only the last term is applied.
func (f *Filter) SetSearchTerm(raw string) {
	term := f.matcher.NormalizeTerm(raw)

	f.mu.Lock()
	f.guard("show loading", func() { f.presenter.SetLoading(true) })
	f.mu.Unlock()

	f.debounce.Trigger(func() { f.applySearch(term) })
}

func (f *Filter) applySearch(term string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.SearchTerm = term
	f.state.CurrentPage = 1
	visible := f.recomputeLocked()
	f.guard("hide loading", func() { f.presenter.SetLoading(false) })

	f.logger.Debug("catalog search applied", "term", term, "visible", len(visible))
}

// Flush applies a pending search immediately.
// It reports whether a search was pending.
func (f *Filter) Flush() bool {
	return f.debounce.Flush()
}

// LoadMore advances the page counter and re-filters.
// Results are never truncated, so nothing visible changes.
func (f *Filter) LoadMore() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.CurrentPage++
	return f.recomputeLocked()
}

// Recompute re-derives the visible records from the current state
// and renders them.
func (f *Filter) Recompute() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recomputeLocked()
}

// Render hides every record and then shows the given records in order
func (f *Filter) Render(visible []models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderLocked(visible)
}

// Close cancels a pending search
func (f *Filter) Close() {
	if f.debounce.Stop() {
		f.mu.Lock()
		f.guard("hide loading", func() { f.presenter.SetLoading(false) })
		f.mu.Unlock()
	}
}

func (f *Filter) recomputeLocked() []models.Product {
	f.visible = f.matcher.Select(f.products, f.state.ActiveCategory, f.state.SearchTerm)
	f.renderLocked(f.visible)
	return append([]models.Product(nil), f.visible...)
}

func (f *Filter) renderLocked(visible []models.Product) {
	for _, p := range f.products {
		f.guard("hide product", func() { f.presenter.Hide(p.Handle) })
	}
	for i, p := range visible {
		f.guard("show product", func() { f.presenter.Show(p.Handle, i) })
	}
	f.guard("set empty state", func() { f.presenter.SetEmpty(len(visible) == 0) })
}

// guard runs one presenter operation so that a failure there only
// affects that operation.
func (f *Filter) guard(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("catalog presenter operation failed", "op", op, "panic", r)
		}
	}()
	fn()
}
