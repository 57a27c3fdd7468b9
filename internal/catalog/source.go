package catalog

// Item is one rendered product element as read from the page
type Item struct {
	Category    string
	Name        string
	Description string
	Image       string
	Brand       string
	Price       int64

	// Handle is passed back to the Presenter untouched.
	Handle any
}

// Source enumerates what the storefront page has rendered
type Source interface {
	// Items returns the rendered product elements in page order.
	Items() []Item
	// Categories returns the category keys of the category selector controls.
	Categories() []string
}

// Presenter reflects filter results back into the page.
// Implementations should treat a missing element as a no-op.
type Presenter interface {
	Hide(handle any)
	Show(handle any, position int)
	SetEmpty(empty bool)
	SetLoading(loading bool)
	SetActiveCategory(category string)
}

type nopPresenter struct{}

func (nopPresenter) Hide(any)                 {}
func (nopPresenter) Show(any, int)            {}
func (nopPresenter) SetEmpty(bool)            {}
func (nopPresenter) SetLoading(bool)          {}
func (nopPresenter) SetActiveCategory(string) {}
