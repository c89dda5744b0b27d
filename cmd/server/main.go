// Package main is the entry point for the warestock API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warestock/db"
	"warestock/internal/config"
	"warestock/internal/domain/auth"
	"warestock/internal/domain/catalogs/category"
	"warestock/internal/domain/catalogs/product"
	"warestock/internal/domain/catalogs/warehouse"
	"warestock/internal/domain/movements"
	"warestock/internal/domain/notify"
	"warestock/internal/domain/stock"
	v1 "warestock/internal/infrastructure/http/v1"
	"warestock/internal/infrastructure/storage/postgres"
	"warestock/internal/infrastructure/storage/postgres/auth_repo"
	"warestock/internal/infrastructure/storage/postgres/catalog_repo"
	"warestock/internal/infrastructure/storage/postgres/movement_repo"
	"warestock/internal/infrastructure/storage/postgres/stock_repo"
	"warestock/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting warestock server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	poolCfg.MaxConns = cfg.Postgres.MaxConns
	poolCfg.MinConns = cfg.Postgres.MinConns
	poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := db.Migrate(pool.Pool); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}
	log.Info("migrations applied")

	// --- Repositories ---
	txManager := postgres.NewTxManager(pool)
	userRepo := auth_repo.NewUserRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	movementRepo := movement_repo.NewMovementRepo(txManager)
	stockRepo := stock_repo.NewStockRepo(txManager)

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	if cfg.JWT.TTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWT.TTL
	}
	jwtService := auth.NewJWTService(jwtConfig)

	hub := notify.NewHub()
	gate := movements.NewReferenceGate(warehouseRepo.ActiveIDs, productRepo.ActiveIDs)

	authService := auth.NewService(userRepo, jwtService)
	categoryService := category.NewService(categoryRepo)
	productService := product.NewService(productRepo)
	warehouseService := warehouse.NewService(warehouseRepo)
	movementService := movements.NewService(movementRepo, gate, hub, txManager)
	stockService := stock.NewService(stockRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		CategoryService:  categoryService,
		ProductService:   productService,
		WarehouseService: warehouseService,
		MovementService:  movementService,
		StockService:     stockService,
		Hub:              hub,
		MaxPageLimit:     cfg.HTTP.MaxPageLimit,
		MetricsEnabled:   cfg.Metrics.Enabled,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
