package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/storefront-catalog/internal/catalog"
	"github.com/Lixing-Zhang/storefront-catalog/internal/config"
	"github.com/Lixing-Zhang/storefront-catalog/internal/handlers"
	"github.com/Lixing-Zhang/storefront-catalog/internal/middleware"
	"github.com/Lixing-Zhang/storefront-catalog/internal/page"
	"github.com/Lixing-Zhang/storefront-catalog/internal/repository"
	"github.com/Lixing-Zhang/storefront-catalog/internal/service"
	"github.com/Lixing-Zhang/storefront-catalog/internal/session"
	"github.com/Lixing-Zhang/storefront-catalog/pkg/logger"
	"github.com/Lixing-Zhang/storefront-catalog/web"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront catalog server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	categories, err := config.LoadCategories(cfg.Catalog.CategoriesFile)
	if err != nil {
		log.Error("failed to load catalog categories", "error", err)
		os.Exit(1)
	}

	// Load the rendered catalog page
	pageHTML := web.CatalogPage
	if cfg.Catalog.PageLocation != "" {
		log.Info("loading catalog page...", "location", cfg.Catalog.PageLocation)
		loader := page.NewLoader(time.Duration(cfg.Catalog.FetchTimeout) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Catalog.FetchTimeout)*time.Second)
		pageHTML, err = loader.Load(ctx, cfg.Catalog.PageLocation)
		cancel()
		if err != nil {
			log.Error("failed to load catalog page", "error", err)
			os.Exit(1)
		}
	}

	selectors := page.DefaultSelectors()
	doc, err := page.ParseBytes(pageHTML, selectors)
	if err != nil {
		log.Error("failed to parse catalog page", "error", err)
		os.Exit(1)
	}

	opts := cfg.FilterOptions(categories)
	products := catalog.Load(doc, opts)
	for _, key := range doc.Categories() {
		if !categories.Has(key) {
			log.Warn("catalog page category has no definition", "category", key)
		}
	}
	log.Info("catalog loaded successfully",
		"products", len(products),
		"categories", len(categories.Categories),
	)

	// Initialize repositories
	productRepo := repository.NewInMemoryProductRepository(products)

	// Initialize services
	productService := service.NewProductService(productRepo, catalog.NewMatcher(opts), opts.AllCategory)
	cartService := service.NewCartService(productRepo)

	// One filter per visitor, expired by the sweeper below
	sessions := session.NewStore(pageHTML, selectors, opts, time.Duration(cfg.Catalog.SessionTTL)*time.Minute, log)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Minute)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, sessions, len(products))
	productHandler := handlers.NewProductHandler(productService, log)
	categoryHandler := handlers.NewCategoryHandler(categories, log)
	catalogHandler := handlers.NewCatalogHandler(sessions, log)
	cartHandler := handlers.NewCartHandler(cartService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.HTMX)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Trigger", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// Storefront page
	r.Get("/", catalogHandler.Page)
	r.Get("/catalog", catalogHandler.Page)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Product endpoints
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)
		r.Get("/categories", categoryHandler.ListCategories)

		// Catalog filter sessions
		r.Route("/catalog/sessions", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateSession)
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", catalogHandler.GetSession)
				r.Delete("/", catalogHandler.DeleteSession)
				r.Put("/category", catalogHandler.SetCategory)
				r.Put("/search", catalogHandler.SetSearch)
				r.Post("/search/flush", catalogHandler.FlushSearch)
				r.Post("/load-more", catalogHandler.LoadMore)
			})
		})

		// Cart endpoint - requires API key
		r.With(middleware.APIKeyAuth(cfg.Auth, log)).Post("/cart", cartHandler.AddToCart)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
