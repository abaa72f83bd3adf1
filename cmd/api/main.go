package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Senshu-NEst/NEst-backend/internal/application/service"
	"github.com/Senshu-NEst/NEst-backend/internal/config"
	"github.com/Senshu-NEst/NEst-backend/internal/infrastructure/cache"
	"github.com/Senshu-NEst/NEst-backend/internal/infrastructure/database"
	"github.com/Senshu-NEst/NEst-backend/internal/infrastructure/repository"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/handler"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/routes"
	"github.com/Senshu-NEst/NEst-backend/pkg/oauth"
	"github.com/Senshu-NEst/NEst-backend/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize product cache
	var productCache cache.ProductCache = &cache.NoopProductCache{}
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisProductCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("Warning: Redis unavailable, product cache disabled: %v", err)
		} else {
			productCache = redisCache
		}
		cancel()
	}

	// Initialize repositories. Read-side product lookups go through the
	// cache; registries created inside a transaction hit the database
	// directly.
	registry := repository.NewRegistry(db)
	registry.Products = repository.NewCachedProductRepository(registry.Products, productCache, 5*time.Minute)
	atomic := repository.NewUnitOfWork(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	gate := service.NewPermissionGate()
	resolver := service.NewLineResolver()
	authService := service.NewAuthService(registry, jwtManager, googleOAuthService)
	productService := service.NewProductService(registry)
	stockService := service.NewStockService(registry, atomic, gate)
	transactionService := service.NewTransactionService(registry, atomic, resolver, gate)
	returnService := service.NewReturnService(registry, atomic, transactionService, gate)
	walletService := service.NewWalletService(registry, atomic, gate)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService, googleOAuthService),
		Product:     handler.NewProductHandler(productService),
		Stock:       handler.NewStockHandler(stockService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Return:      handler.NewReturnHandler(returnService),
		Wallet:      handler.NewWalletHandler(walletService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
