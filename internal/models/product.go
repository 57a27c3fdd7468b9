package models

// Product represents a single catalog entry as rendered on the storefront page.
// Records are built once from the page and never modified afterwards.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Image       string `json:"image,omitempty"`

	// Handle points back at the element this record renders as.
	// It is only used to toggle visibility.
	Handle any `json:"-"`
}

// Category is a selectable catalog category
type Category struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}
