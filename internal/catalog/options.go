package catalog

import (
	"time"

	"golang.org/x/text/language"
)

// Defaults mirror the storefront page the catalog is rendered on.
const (
	DefaultAllCategory     = "all"
	DefaultInitialCategory = "myndlistavörur"
	DefaultPageSize        = 8
	DefaultSearchDebounce  = 300 * time.Millisecond
	DefaultFallbackName    = "Vara %d"
	DefaultBrand           = "Litir og Föndur"
)

// Options configures a Filter
type Options struct {
	// AllCategory is the sentinel category that matches every record.
	AllCategory string
	// CatchAllCategory is assigned to records rendered without a category.
	CatchAllCategory string
	// InitialCategory is active when the filter is created.
	InitialCategory string

	PageSize       int
	SearchDebounce time.Duration

	// FallbackName is a fmt pattern taking the 1-based record id.
	FallbackName string
	DefaultBrand string

	// Locale drives lower-casing of names and search terms.
	Locale language.Tag
}

// DefaultOptions returns the options used by the storefront
func DefaultOptions() Options {
	return Options{
		AllCategory:      DefaultAllCategory,
		CatchAllCategory: DefaultAllCategory,
		InitialCategory:  DefaultInitialCategory,
		PageSize:         DefaultPageSize,
		SearchDebounce:   DefaultSearchDebounce,
		FallbackName:     DefaultFallbackName,
		DefaultBrand:     DefaultBrand,
		Locale:           language.Icelandic,
	}
}

// withDefaults fills zero values from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AllCategory == "" {
		o.AllCategory = d.AllCategory
	}
	if o.CatchAllCategory == "" {
		o.CatchAllCategory = d.CatchAllCategory
	}
	if o.InitialCategory == "" {
		o.InitialCategory = d.InitialCategory
	}
	if o.PageSize <= 0 {
		o.PageSize = d.PageSize
	}
	if o.SearchDebounce < 0 {
		o.SearchDebounce = 0
	}
	if o.FallbackName == "" {
		o.FallbackName = d.FallbackName
	}
	if o.DefaultBrand == "" {
		o.DefaultBrand = d.DefaultBrand
	}
	if o.Locale == language.Und {
		o.Locale = d.Locale
	}
	return o
}
