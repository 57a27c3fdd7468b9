package page

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
	"github.com/Lixing-Zhang/storefront-catalog/web"
)

func parseRendered(t testing.TB, d *Document) *goquery.Document {
	t.Helper()

	out, err := d.HTML()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func visibleNames(doc *goquery.Document) []string {
	var names []string
	doc.Find("#products-grid .product-item").Not(".hidden").Each(func(_ int, s *goquery.Selection) {
		names = append(names, s.Find("h3").Text())
	})
	return names
}

func newFilter(t testing.TB, d *Document, category string) *catalog.Filter {
	t.Helper()

	opts := catalog.DefaultOptions()
	opts.InitialCategory = category
	return catalog.New(d, d, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDocument_Items(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	items := d.Items()
	require.Len(t, items, 10)

	first := items[0]
	assert.Equal(t, "myndlistavörur", first.Category)
	assert.Equal(t, "Acrýlmálning sett", first.Name)
	assert.Equal(t, "24 litir í háum gæðum", first.Description)
	assert.Equal(t, "/static/img/acryl.jpg", first.Image)
	assert.Equal(t, "Winsor & Newton", first.Brand)
	assert.Equal(t, int64(7900), first.Price)
	assert.NotNil(t, first.Handle)

	assert.Equal(t, "/static/img/trönur.jpg", items[2].Image, "falls back to data-src")
	assert.Empty(t, items[9].Category)
	assert.Zero(t, items[1].Price)
}

func TestDocument_CategoriesAndSearch(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	assert.Equal(t, []string{"myndlistavörur", "föndurvörur", "penslar", "málning"}, d.Categories())
	assert.Equal(t, "", d.SearchValue())

	d.SetSearchValue("pensl")
	assert.Equal(t, "pensl", d.SearchValue())
}

func TestDocument_RendersFilterResult(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	f := newFilter(t, d, "penslar")
	require.Len(t, f.Visible(), 2)

	doc := parseRendered(t, d)
	assert.Equal(t, []string{"Winsor & Newton pensla sett", "Vatnslitapensill nr. 8"}, visibleNames(doc))
	assert.Equal(t, 8, doc.Find(".product-item.hidden").Length())
	assert.True(t, doc.Find("#no-results").HasClass("hidden"))
	assert.True(t, doc.Find("#load-more-btn").HasClass("hidden"))
	assert.True(t, doc.Find("#loading-spinner").HasClass("hidden"))
	assert.False(t, doc.Find("#products-grid").HasClass("opacity-50"))

	active := doc.Find(".category-btn.active")
	require.Equal(t, 1, active.Length())
	key, _ := active.Attr("data-category")
	assert.Equal(t, "penslar", key)
	pressed, _ := active.Attr("aria-pressed")
	assert.Equal(t, "true", pressed)
}

func TestDocument_SearchAcrossCategories(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	f := newFilter(t, d, "all")
	f.SetSearchTerm("VATNSLIT")
	require.True(t, f.Flush())

	doc := parseRendered(t, d)
	assert.Equal(t, []string{"Vatnslitapensill nr. 8", "Vatnslitir í boxi"}, visibleNames(doc))
	assert.Equal(t, 0, doc.Find(".category-btn.active").Length())
}

func TestDocument_EmptyResult(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	f := newFilter(t, d, "myndlistavörur")
	f.SetCategory("leikföng")

	doc := parseRendered(t, d)
	assert.Empty(t, visibleNames(doc))
	assert.False(t, doc.Find("#no-results").HasClass("hidden"))
}

func TestDocument_RenderTwiceIsStable(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	f := newFilter(t, d, "málning")
	first, err := d.HTML()
	require.NoError(t, err)

	f.Recompute()
	second, err := d.HTML()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDocument_GridFragment(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	newFilter(t, d, "föndurvörur")

	grid, err := d.Grid()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(grid, `<div id="products-grid"`))
	assert.Contains(t, grid, "Strauperlur")
	assert.NotContains(t, grid, "<html")
}

func TestDocument_Partial(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	newFilter(t, d, "leikföng")

	partial, err := d.Partial()
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(partial))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#products-grid").Length())

	empty := doc.Find("#no-results")
	require.Equal(t, 1, empty.Length())
	assert.False(t, empty.HasClass("hidden"))
	oob, _ := empty.Attr("hx-swap-oob")
	assert.Equal(t, "true", oob)

	// the page itself is not marked out-of-band
	full := parseRendered(t, d)
	_, marked := full.Find("#no-results").Attr("hx-swap-oob")
	assert.False(t, marked)
}

func TestDocument_MissingOptionalElements(t *testing.T) {
	const bare = `<html><body>
<div class="product-item" data-category="a"><h3>Red Paint</h3></div>
<div class="product-item" data-category="b"><h3>Blue Brush</h3></div>
</body></html>`

	d, err := Parse(strings.NewReader(bare), DefaultSelectors())
	require.NoError(t, err)

	assert.Empty(t, d.Categories())
	assert.Equal(t, "", d.SearchValue())

	f := newFilter(t, d, "b")
	f.SetSearchTerm("blue")
	f.Flush()
	require.Len(t, f.Visible(), 1)

	doc := parseRendered(t, d)
	var shown []string
	doc.Find(".product-item").Not(".hidden").Each(func(_ int, s *goquery.Selection) {
		shown = append(shown, s.Find("h3").Text())
	})
	assert.Equal(t, []string{"Blue Brush"}, shown)

	_, err = d.Grid()
	assert.Error(t, err)
}

func TestDocument_IgnoresForeignHandles(t *testing.T) {
	d, err := ParseBytes(web.CatalogPage, DefaultSelectors())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		d.Hide("not a selection")
		d.Show(nil, 0)
		d.Hide(&goquery.Selection{})
	})
}
