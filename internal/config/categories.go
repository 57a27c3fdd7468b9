package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Lixing-Zhang/storefront-catalog/internal/models"
	"github.com/Lixing-Zhang/storefront-catalog/web"
)

// Categories describes the selectable catalog categories
type Categories struct {
	// All is the category key that selects every product.
	All string `yaml:"all"`
	// Initial is active when a visitor first opens the catalog.
	Initial    string            `yaml:"initial"`
	Categories []models.Category `yaml:"categories"`
}

// LoadCategories reads category definitions from path, or the bundled
// definitions when path is empty.
func LoadCategories(path string) (*Categories, error) {
	data := web.Categories
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read category file: %w", err)
		}
		data = b
	}
	return ParseCategories(data)
}

// ParseCategories decodes and validates YAML category definitions
func ParseCategories(data []byte) (*Categories, error) {
	var cats Categories
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("failed to decode category file: %w", err)
	}
	if err := cats.Validate(); err != nil {
		return nil, fmt.Errorf("invalid category file: %w", err)
	}
	return &cats, nil
}

// Validate checks that keys are present and unique
func (c *Categories) Validate() error {
	if c.All == "" {
		return fmt.Errorf("all category key is required")
	}
	if c.Initial == "" {
		return fmt.Errorf("initial category is required")
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("category %q has no key", cat.Label)
		}
		if seen[cat.Key] {
			return fmt.Errorf("duplicate category key %q", cat.Key)
		}
		seen[cat.Key] = true
	}
	return nil
}

// Label returns the display label for key, or key itself when unknown
func (c *Categories) Label(key string) string {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return cat.Label
		}
	}
	return key
}

// Has reports whether key is a defined category
func (c *Categories) Has(key string) bool {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return true
		}
	}
	return false
}
