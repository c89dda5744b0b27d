// Package main seeds the database with an administrator account and a
// minimal starter catalog. Intended for development and first-run setup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"warestock/db"
	"warestock/internal/config"
	"warestock/internal/core/security"
	"warestock/internal/domain/auth"
	"warestock/internal/domain/catalogs/category"
	"warestock/internal/domain/catalogs/warehouse"
	"warestock/internal/infrastructure/storage/postgres"
	"warestock/internal/infrastructure/storage/postgres/auth_repo"
	"warestock/internal/infrastructure/storage/postgres/catalog_repo"
	"warestock/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	adminEmail := flag.String("admin-email", "admin@warestock.local", "administrator email")
	adminPassword := flag.String("admin-password", "", "administrator password (required)")
	flag.Parse()

	if *adminPassword == "" {
		fmt.Println("missing -admin-password")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := db.Migrate(pool.Pool); err != nil {
		logger.Fatal(ctx, "failed to apply migrations", "error", err)
	}

	txManager := postgres.NewTxManager(pool)
	userRepo := auth_repo.NewUserRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)

	exists, err := userRepo.ExistsByEmail(ctx, *adminEmail)
	if err != nil {
		logger.Fatal(ctx, "failed to check admin account", "error", err)
	}
	if exists {
		logger.Info(ctx, "admin account already present", "email", *adminEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal(ctx, "failed to hash password", "error", err)
	}

	admin := auth.NewUser("Administrator", *adminEmail, string(hash))
	admin.Role = security.RoleAdmin
	if err := userRepo.Create(ctx, admin); err != nil {
		logger.Fatal(ctx, "failed to create admin account", "error", err)
	}
	logger.Info(ctx, "admin account created", "email", admin.Email)

	for _, name := range []string{"General", "Perishables"} {
		c := category.New(name)
		if err := categoryRepo.Create(ctx, c); err != nil {
			logger.Warn(ctx, "failed to seed category", "name", name, "error", err)
		}
	}

	w := warehouse.New("Main warehouse")
	if err := warehouseRepo.Create(ctx, w); err != nil {
		logger.Warn(ctx, "failed to seed warehouse", "error", err)
	}

	logger.Info(ctx, "seed complete")
}
