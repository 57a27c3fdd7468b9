package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for authentication
}

type CatalogConfig struct {
	PageLocation     string // file path or URL of the rendered catalog page; empty uses the bundled page
	CategoriesFile   string // YAML category definitions; empty uses the bundled file
	FetchTimeout     int
	SearchDebounceMS int
	PageSize         int
	Locale           string
	SessionTTL       int // minutes
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Catalog: CatalogConfig{
			PageLocation:     getEnv("CATALOG_PAGE", ""),
			CategoriesFile:   getEnv("CATALOG_CONFIG", ""),
			FetchTimeout:     getEnvAsInt("CATALOG_FETCH_TIMEOUT", 30),
			SearchDebounceMS: getEnvAsInt("SEARCH_DEBOUNCE_MS", 300),
			PageSize:         getEnvAsInt("PAGE_SIZE", catalog.DefaultPageSize),
			Locale:           getEnv("CATALOG_LOCALE", "is"),
			SessionTTL:       getEnvAsInt("SESSION_TTL_MINUTES", 30),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Catalog.SearchDebounceMS < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must not be negative")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	if c.Catalog.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if _, err := language.Parse(c.Catalog.Locale); err != nil {
		return fmt.Errorf("invalid catalog locale %q: %w", c.Catalog.Locale, err)
	}

	return nil
}

// FilterOptions builds catalog filter options from the environment
// settings and the category definitions.
func (c *Config) FilterOptions(cats *Categories) catalog.Options {
	opts := catalog.DefaultOptions()
	opts.PageSize = c.Catalog.PageSize
	opts.SearchDebounce = time.Duration(c.Catalog.SearchDebounceMS) * time.Millisecond
	if tag, err := language.Parse(c.Catalog.Locale); err == nil {
		opts.Locale = tag
	}
	if cats != nil {
		opts.AllCategory = cats.All
		opts.CatchAllCategory = cats.All
		opts.InitialCategory = cats.Initial
	}
	return opts
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
