package page

import (
	"github.com/microcosm-cc/bluemonday"
)

// RemotePolicy is applied to catalog pages fetched over http(s).
// It keeps the document structure, classes, ids, data attributes and htmx
// attributes the catalog relies on, and drops scripts, styles, event
// handlers and unsafe URLs. Without its script tag a remote page falls
// back to plain links and form submits.
func RemotePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"html", "head", "body", "title", "meta",
		"main", "nav", "header", "footer", "section", "article", "div", "span",
		"h1", "h2", "h3", "h4", "p", "strong", "em", "br",
		"ul", "ol", "li", "a", "img",
		"form", "label", "input", "button",
	)

	p.AllowAttrs("id", "class", "role", "lang", "title").Globally()
	p.AllowAttrs("aria-label", "aria-hidden", "aria-pressed").Globally()
	p.AllowAttrs("hx-get", "hx-target", "hx-swap", "hx-trigger", "hx-swap-oob").Globally()
	p.AllowDataAttributes()

	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("action", "method").OnElements("form")
	p.AllowAttrs("type", "name", "value", "placeholder").OnElements("input")
	p.AllowAttrs("type").OnElements("button")
	p.AllowAttrs("charset", "name", "content").OnElements("meta")

	return p
}
