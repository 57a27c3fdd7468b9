package catalog

import (
	"strings"

	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Matcher evaluates the category and search predicates.
// It is safe for concurrent use.
type Matcher struct {
	all    string
	locale language.Tag
}

// NewMatcher creates a matcher using the sentinel and locale from opts
func NewMatcher(opts Options) *Matcher {
	opts = opts.withDefaults()
	return &Matcher{
		all:    opts.AllCategory,
		locale: opts.Locale,
	}
}

// Lower lower-cases s using the configured locale.
// A cases.Caser keeps state, so one is created per call.
func (m *Matcher) Lower(s string) string {
	return cases.Lower(m.locale).String(s)
}

// NormalizeTerm lower-cases and trims raw search input.
// Everything else, markup included, is searched literally.
func (m *Matcher) NormalizeTerm(raw string) string {
	return strings.TrimSpace(m.Lower(raw))
}

// MatchesCategory reports whether p belongs to category.
// The comparison is exact; the sentinel matches everything.
func (m *Matcher) MatchesCategory(p models.Product, category string) bool {
	return category == m.all || p.Category == category
}

// MatchesSearch reports whether the normalized term occurs in the
// product's name, description or brand.
func (m *Matcher) MatchesSearch(p models.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(m.Lower(p.Name), term) ||
		strings.Contains(m.Lower(p.Description), term) ||
		strings.Contains(m.Lower(p.Brand), term)
}

// Matches is the conjunction of MatchesCategory and MatchesSearch
func (m *Matcher) Matches(p models.Product, category, term string) bool {
	return m.MatchesCategory(p, category) && m.MatchesSearch(p, term)
}

// Select returns the products matching category and term in their original order
func (m *Matcher) Select(products []models.Product, category, term string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if m.Matches(p, category, term) {
			out = append(out, p)
		}
	}
	return out
}
