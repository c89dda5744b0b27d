// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warestock/internal/domain/auth"
	"warestock/internal/domain/catalogs/category"
	"warestock/internal/domain/catalogs/product"
	"warestock/internal/domain/catalogs/warehouse"
	"warestock/internal/domain/movements"
	"warestock/internal/domain/notify"
	"warestock/internal/domain/stock"
	"warestock/internal/infrastructure/http/v1/handlers"
	"warestock/internal/infrastructure/http/v1/middleware"
	"warestock/internal/infrastructure/storage/postgres"
	"warestock/pkg/logger"
)

// RouterConfig holds the dependencies the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService      *auth.Service
	CategoryService  *category.Service
	ProductService   *product.Service
	WarehouseService *warehouse.Service
	MovementService  *movements.Service
	StockService     *stock.Service
	Hub              *notify.Hub

	MaxPageLimit   int
	MetricsEnabled bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters).
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler(cfg.MaxPageLimit)

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	categoryHandler := handlers.NewCategoryHandler(base, cfg.CategoryService)
	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	warehouseHandler := handlers.NewWarehouseHandler(base, cfg.WarehouseService)
	movementHandler := handlers.NewMovementHandler(base, cfg.MovementService)
	stockHandler := handlers.NewStockHandler(base, cfg.StockService)
	eventsHandler := handlers.NewEventsHandler(base, cfg.Hub)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())

		// Users
		protected.GET("/users/me", authHandler.Me)
		protected.POST("/users/me/password", authHandler.ChangePassword)
		protected.GET("/users/:id", authHandler.GetByID)
		admin.POST("/users", authHandler.Register)
		admin.GET("/users", authHandler.List)
		admin.PATCH("/users/:id/active", authHandler.SetActive)

		// Catalogs
		protected.GET("/categories", categoryHandler.List)
		protected.GET("/categories/:id", categoryHandler.GetByID)
		admin.POST("/categories", categoryHandler.Create)
		admin.PUT("/categories/:id", categoryHandler.Update)
		admin.DELETE("/categories/:id", categoryHandler.Delete)

		protected.GET("/products", productHandler.List)
		protected.GET("/products/:id", productHandler.GetByID)
		admin.POST("/products", productHandler.Create)
		admin.PUT("/products/:id", productHandler.Update)
		admin.PATCH("/products/:id/active", productHandler.SetActive)

		protected.GET("/warehouses", warehouseHandler.List)
		protected.GET("/warehouses/:id", warehouseHandler.GetByID)
		admin.POST("/warehouses", warehouseHandler.Create)
		admin.PUT("/warehouses/:id", warehouseHandler.Update)
		admin.PATCH("/warehouses/:id/active", warehouseHandler.SetActive)

		// Movement ledger
		protected.POST("/stock-movements", movementHandler.Create)
		protected.GET("/stock-movements", movementHandler.List)
		protected.GET("/stock-movements/last-year", movementHandler.ListLastYear)
		protected.GET("/stock-movements/summary", movementHandler.Summary)
		protected.GET("/stock-movements/events", eventsHandler.Stream)
		protected.GET("/stock-movements/:id", movementHandler.GetByID)
		protected.GET("/stock-movements/:id/lines", movementHandler.Lines)

		// Stock projection
		protected.GET("/stock", stockHandler.Positions)
		protected.GET("/stock/expiring", stockHandler.Expiring)
		protected.GET("/stock/expiring-between", stockHandler.ExpiringBetween)
		protected.GET("/stock/warehouses", stockHandler.WarehouseTotals)
		protected.GET("/stock/warehouses/:id", stockHandler.WarehouseDetail)
		protected.GET("/stock/products/:id", stockHandler.ProductTotals)
		protected.GET("/stock/categories", stockHandler.CategoryTotals)
		protected.GET("/stock/categories/:id", stockHandler.CategoryDetail)
		protected.GET("/stock/lots", stockHandler.AvailableLots)
		protected.GET("/stock/semaphore", stockHandler.Semaphore)
		protected.GET("/stock/history", stockHandler.History)
		admin.GET("/stock/consistency", stockHandler.Consistency)
	}

	return router
}
