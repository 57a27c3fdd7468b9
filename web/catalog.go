package web

import (
	_ "embed"
)

// CatalogPage is the storefront catalog page served when no other page is configured
//
//go:embed catalog.html
var CatalogPage []byte

// Categories is the default category definition file
//
//go:embed categories.yaml
var Categories []byte
