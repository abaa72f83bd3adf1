package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Senshu-NEst/NEst-backend/internal/config"
	domainRepo "github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/handler"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/middleware"
	"github.com/Senshu-NEst/NEst-backend/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Product     *handler.ProductHandler
	Stock       *handler.StockHandler
	Transaction *handler.TransactionHandler
	Return      *handler.ReturnHandler
	Wallet      *handler.WalletHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.StaffLogin)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	protected.GET("/auth/me", h.Auth.Me)

	// Catalog
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:jan", h.Product.Get)
		products.POST("", middleware.RequireStaff(), h.Product.Create)
		products.PUT("/:jan", middleware.RequireStaff(), h.Product.Update)
	}
	protected.GET("/variations/:instore_jan", h.Product.GetVariation)

	// Per-store catalog and stock
	stores := protected.Group("/stores/:store_code", middleware.RequireStaff())
	{
		stores.PUT("/prices/:jan", h.Product.SetStorePrice)
		stores.DELETE("/prices/:jan", h.Product.DeleteStorePrice)
		stores.GET("/stocks", h.Stock.List)
		stores.GET("/stocks/history", h.Stock.History)
	}
	protected.POST("/stocks/receive",
		middleware.RequireStaff(),
		middleware.RequirePermission("stock_receive"),
		idempotency,
		h.Stock.Receive)

	// Settlement
	transactions := protected.Group("/transactions", middleware.RequireStaff())
	{
		transactions.POST("", middleware.RequirePermission("register"), idempotency, h.Transaction.Create)
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
	}

	// Returns
	returns := protected.Group("/returns", middleware.RequireStaff())
	{
		returns.POST("", middleware.RequirePermission("void"), idempotency, h.Return.Create)
		returns.GET("", h.Return.List)
		returns.GET("/:id", h.Return.Get)
	}

	// Wallets and approvals
	wallets := protected.Group("/wallets/:customer_id")
	{
		wallets.GET("", h.Wallet.GetBalance)
		wallets.GET("/entries", h.Wallet.ListEntries)
		wallets.POST("/charge", middleware.RequireStaff(), idempotency, h.Wallet.Charge)
	}
	protected.POST("/approvals", middleware.RequireStaff(), h.Wallet.IssueApproval)
}
