package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yachtdrop/backend/internal/adapters/cache"
	"github.com/yachtdrop/backend/internal/adapters/database"
	"github.com/yachtdrop/backend/internal/adapters/providers/overpass"
	"github.com/yachtdrop/backend/internal/api/handlers"
	"github.com/yachtdrop/backend/internal/api/middleware"
	"github.com/yachtdrop/backend/internal/api/routes"
	"github.com/yachtdrop/backend/internal/application/services"
	"github.com/yachtdrop/backend/internal/domain/providers"
	"github.com/yachtdrop/backend/internal/infrastructure/clients/openai"
	"github.com/yachtdrop/backend/internal/infrastructure/clients/postgres"
	"github.com/yachtdrop/backend/internal/infrastructure/clients/redis"
	"github.com/yachtdrop/backend/internal/infrastructure/observability"
	"github.com/yachtdrop/backend/pkg/config"
	"github.com/yachtdrop/backend/pkg/tasks"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	productSearchAdapter := database.NewProductSearchAdapter(pgClient)
	categoryAdapter := database.NewCategoryAdapter(pgClient)
	marinaAdapter := database.NewMarinaAdapter(pgClient)

	// Overpass is the live marina directory; results are persisted locally
	// by a background task queue.
	overpassProvider := overpass.NewProvider(&cfg.Overpass)

	taskQueue := tasks.NewQueue(2, 64, 30*time.Second)

	var aiProvider providers.AIProvider
	if cfg.OpenAI.APIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; chat runs with keyword planning and canned replies")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			aiProvider = openaiClient
			log.Println("OpenAI client initialized successfully")
		}
	}

	// Initialize services

	searchService := services.NewSearchService(productSearchAdapter, metrics)
	marinaService := services.NewMarinaSearchService(marinaAdapter, overpassProvider, taskQueue)
	combinedService := services.NewCombinedSearchService(searchService, marinaService, categoryAdapter)

	plannerService := services.NewQueryPlannerService(aiProvider)
	retrievalService := services.NewRetrievalService(productSearchAdapter)
	catalogService := services.NewCatalogContextService(categoryAdapter, productSearchAdapter, 0)
	resolverService := services.NewCategoryResolverService(categoryAdapter)

	bundleService := services.NewBundleService(productSearchAdapter, categoryAdapter, aiProvider)

	chatService := services.NewChatService(
		aiProvider,
		plannerService,
		retrievalService,
		services.NewRelevanceFilterService(),
		catalogService,
		resolverService,
		marinaService,
	)

	// Initialize handlers

	searchHandler := handlers.NewSearchHandler(searchService, combinedService)

	categoryHandler := handlers.NewCategoryHandler(categoryAdapter)

	marinaHandler := handlers.NewMarinaHandler(marinaService)

	chatHandler := handlers.NewChatHandler(chatService)

	bundleHandler := handlers.NewBundleHandler(bundleService, cfg.Server.IsDevelopment())

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Per-client rate limits: search is cheap, chat burns model tokens.
	searchLimiter := middleware.NewRateLimiter(cfg.RateLimit.SearchPerMinute, time.Minute)
	chatLimiter := middleware.NewRateLimiter(cfg.RateLimit.ChatPerMinute, time.Minute)

	// Set up router

	router := routes.NewRouter(
		searchHandler,
		categoryHandler,
		marinaHandler,
		chatHandler,
		bundleHandler,
		cacheMiddleware,
		searchLimiter,
		chatLimiter,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Drain pending marina persistence tasks before exit
	taskQueue.Close()

	log.Println("Server stopped")
}
