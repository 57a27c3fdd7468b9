// Package page reads and updates the rendered storefront catalog page.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
)

// Selectors locate the catalog elements on the page
type Selectors struct {
	Item           string
	CategoryButton string
	Search         string
	Grid           string
	NoResults      string
	Loading        string
	LoadMore       string

	HiddenClass  string
	ActiveClass  string
	DimmedClass  string
	CategoryAttr string
}

// DefaultSelectors match the storefront markup
func DefaultSelectors() Selectors {
	return Selectors{
		Item:           ".product-item",
		CategoryButton: ".category-btn",
		Search:         "#product-search",
		Grid:           "#products-grid",
		NoResults:      "#no-results",
		Loading:        "#loading-spinner",
		LoadMore:       "#load-more-btn",
		HiddenClass:    "hidden",
		ActiveClass:    "active",
		DimmedClass:    "opacity-50",
		CategoryAttr:   "data-category",
	}
}

// Document is one parsed copy of the catalog page.
// It is not safe for concurrent use; callers serialise access.
type Document struct {
	doc *goquery.Document
	sel Selectors
}

var (
	_ catalog.Source    = (*Document)(nil)
	_ catalog.Presenter = (*Document)(nil)
)

// Parse reads a catalog page.
// Pagination is not implemented, so the load more control is hidden straight away.
func Parse(r io.Reader, sel Selectors) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog page: %w", err)
	}

	d := &Document{doc: doc, sel: sel}
	d.doc.Find(sel.LoadMore).AddClass(sel.HiddenClass)
	return d, nil
}

// ParseBytes is Parse over an in-memory page
func ParseBytes(b []byte, sel Selectors) (*Document, error) {
	return Parse(bytes.NewReader(b), sel)
}

// Items returns every rendered product element in page order
func (d *Document) Items() []catalog.Item {
	nodes := d.doc.Find(d.sel.Item)
	items := make([]catalog.Item, 0, nodes.Length())

	nodes.Each(func(_ int, s *goquery.Selection) {
		category, _ := s.Attr(d.sel.CategoryAttr)
		brand, _ := s.Attr("data-brand")

		image, ok := s.Find("img").First().Attr("src")
		if !ok || image == "" {
			image, _ = s.Find("img").First().Attr("data-src")
		}

		var price int64
		if raw, ok := s.Attr("data-price"); ok {
			if v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
				price = v
			}
		}

		items = append(items, catalog.Item{
			Category:    category,
			Name:        s.Find("h3").First().Text(),
			Description: s.Find("p").First().Text(),
			Image:       image,
			Brand:       brand,
			Price:       price,
			Handle:      s,
		})
	})
	return items
}

// Categories returns the category keys of the selector buttons
func (d *Document) Categories() []string {
	var keys []string
	d.doc.Find(d.sel.CategoryButton).Each(func(_ int, s *goquery.Selection) {
		if key, ok := s.Attr(d.sel.CategoryAttr); ok {
			keys = append(keys, key)
		}
	})
	return keys
}

// SearchValue returns the value of the search input, or "" without one
func (d *Document) SearchValue() string {
	v, _ := d.doc.Find(d.sel.Search).First().Attr("value")
	return v
}

// SetSearchValue writes v back into the search input
func (d *Document) SetSearchValue(v string) {
	d.doc.Find(d.sel.Search).First().SetAttr("value", v)
}

// Hide hides one product element
func (d *Document) Hide(handle any) {
	s, ok := handle.(*goquery.Selection)
	if !ok || s.Length() == 0 {
		return
	}
	s.AddClass(d.sel.HiddenClass)
	s.SetAttr("aria-hidden", "true")
}

// Show reveals one product element and moves it to the end of the grid,
// so that consecutive calls leave visible products in call order.
func (d *Document) Show(handle any, position int) {
	s, ok := handle.(*goquery.Selection)
	if !ok || s.Length() == 0 {
		return
	}
	s.RemoveClass(d.sel.HiddenClass)
	s.RemoveAttr("aria-hidden")
	s.SetAttr("data-position", strconv.Itoa(position))

	if grid := d.doc.Find(d.sel.Grid).First(); grid.Length() > 0 {
		grid.AppendSelection(s)
	}
}

// SetEmpty shows or hides the no results message
func (d *Document) SetEmpty(empty bool) {
	toggle(d.doc.Find(d.sel.NoResults), d.sel.HiddenClass, !empty)
}

// SetLoading shows or hides the spinner and dims the grid
func (d *Document) SetLoading(loading bool) {
	toggle(d.doc.Find(d.sel.Loading), d.sel.HiddenClass, !loading)
	toggle(d.doc.Find(d.sel.Grid), d.sel.DimmedClass, loading)
}

// SetActiveCategory marks the selector button of category as active
func (d *Document) SetActiveCategory(category string) {
	d.doc.Find(d.sel.CategoryButton).Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr(d.sel.CategoryAttr)
		active := key == category
		toggle(s, d.sel.ActiveClass, active)
		s.SetAttr("aria-pressed", strconv.FormatBool(active))
	})
}

// HTML renders the whole page
func (d *Document) HTML() (string, error) {
	return goquery.OuterHtml(d.doc.Selection)
}

// Grid renders only the product grid, for partial page updates
func (d *Document) Grid() (string, error) {
	grid := d.doc.Find(d.sel.Grid).First()
	if grid.Length() == 0 {
		return "", fmt.Errorf("catalog page has no %s element", d.sel.Grid)
	}
	return goquery.OuterHtml(grid)
}

// Partial renders the product grid followed by an out-of-band copy of the
// no results message, so an htmx swap of the grid updates both.
func (d *Document) Partial() (string, error) {
	grid, err := d.Grid()
	if err != nil {
		return "", err
	}

	empty := d.doc.Find(d.sel.NoResults).First()
	if empty.Length() == 0 {
		return grid, nil
	}
	oob := empty.Clone()
	oob.SetAttr("hx-swap-oob", "true")
	extra, err := goquery.OuterHtml(oob)
	if err != nil {
		return "", err
	}
	return grid + "\n" + extra, nil
}

func toggle(s *goquery.Selection, class string, on bool) {
	if on {
		s.AddClass(class)
		return
	}
	s.RemoveClass(class)
}
