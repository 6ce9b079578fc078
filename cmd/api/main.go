package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/grocery_api/internal/cache"
	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/config"
	"github.com/GTDGit/grocery_api/internal/database"
	"github.com/GTDGit/grocery_api/internal/handler"
	"github.com/GTDGit/grocery_api/internal/middleware"
	"github.com/GTDGit/grocery_api/internal/repository"
	"github.com/GTDGit/grocery_api/internal/service"
	"github.com/GTDGit/grocery_api/internal/sse"
	"github.com/GTDGit/grocery_api/internal/worker"
)

// main is the application entrypoint for the grocery catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("catalog_source", cfg.Catalog.Source).Msg("starting grocery api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Catalog source
	source, closeSource, err := buildSource(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("catalog source setup failed")
		fmt.Fprintf(os.Stderr, "catalog source setup failed: %v\n", err)
		os.Exit(1)
	}
	defer closeSource()

	// 4. Initial catalog load
	hub := sse.NewHub()
	store := catalog.NewStore()
	catalogSvc := service.NewCatalogService(store, source)
	catalogSvc.SetNotifier(sse.NewHubNotifier(hub))

	if _, err := catalogSvc.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("initial catalog load failed")
		fmt.Fprintf(os.Stderr, "initial catalog load failed: %v\n", err)
		os.Exit(1)
	}

	// 5. Optional Redis cache for similar-product rankings
	var similarCache service.SimilarCache
	var redisPinger handler.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable - similar products will be ranked uncached")
		} else {
			defer redisClient.Close()
			similarCache = cache.NewSimilarCache(redisClient, cfg.Cache.SimilarTTL)
			redisPinger = redisClient
			log.Info().Dur("ttl", cfg.Cache.SimilarTTL).Msg("redis connected successfully")
		}
	}

	// 6. Initialize services
	productSvc := service.NewProductService(store)
	similaritySvc := service.NewSimilarityService(store, similarCache)
	substituteSvc := service.NewSubstituteService(store, similaritySvc)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:       handler.NewHealthHandler(productSvc, redisPinger),
		Product:      handler.NewProductHandler(productSvc, similaritySvc),
		Substitute:   handler.NewSubstituteHandler(substituteSvc),
		AdminCatalog: handler.NewAdminCatalogHandler(catalogSvc),
		SSE:          handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Start workers
	go worker.NewCatalogReloadWorker(catalogSvc, cfg.Worker.CatalogReloadInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	// Shutdown waits for handlers, so end open SSE streams first.
	srv.RegisterOnShutdown(hub.Close)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health       *handler.HealthHandler
	Product      *handler.ProductHandler
	Substitute   *handler.SubstituteHandler
	AdminCatalog *handler.AdminCatalogHandler
	SSE          *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	products := router.Group("/v1/products")
	{
		products.GET("", handlers.Product.GetProducts)
		products.GET("/search", handlers.Product.SearchProducts)
		products.GET("/:id", handlers.Product.GetProduct)
		products.GET("/:id/similar", handlers.Product.GetSimilar)
	}

	router.POST("/v1/substitutes", handlers.Substitute.Create)

	// EventSource cannot set headers, so the stream takes its token from the query.
	router.GET("/v1/admin/events", jwtMiddleware.HandleQuery(), handlers.SSE.Stream)

	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle())
	{
		admin.POST("/catalog/reload", handlers.AdminCatalog.Reload)
	}
}

// buildSource returns the configured catalog source and a cleanup func.
func buildSource(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case config.SourceS3:
		src, err := catalog.NewS3Source(ctx, cfg.Catalog.AWSRegion, cfg.Catalog.S3Bucket, cfg.Catalog.S3Key)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil

	case config.SourcePostgres:
		db, err := database.Connect(ctx, &cfg.DB)
		if err != nil {
			return nil, noop, fmt.Errorf("database connection failed: %w", err)
		}
		if err := database.RunMigrations(db.DB, "migrations"); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("migration failed: %w", err)
		}
		log.Info().Msg("migrations completed successfully")
		return catalog.NewRepositorySource(repository.NewProductRepository(db)), func() { _ = db.Close() }, nil

	default:
		return catalog.NewFileSource(cfg.Catalog.File), noop, nil
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
