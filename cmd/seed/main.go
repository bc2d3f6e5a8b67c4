// Package main implements a standalone seed script for the catalog
// database. It connects to Postgres, applies migrations, and replaces the
// products collection with the canonical dataset.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopfront/catalog/internal/config"
	"github.com/shopfront/catalog/internal/domain"
	"github.com/shopfront/catalog/internal/repository/postgres"
	"github.com/shopfront/catalog/migrations"
	"github.com/shopfront/catalog/pkg/database"
	"github.com/shopfront/catalog/pkg/logger"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[seed] ")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("Connecting to catalog database...")
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()
	log.Println("Connected.")

	slogger := logger.New("catalog-seed", cfg.LogLevel)
	if err := database.RunMigrations(ctx, pool, migrations.FS, slogger); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	log.Println("Migrations applied.")

	products := domain.SeedProducts()
	deleted, inserted, err := postgres.NewProductRepository(pool).Seed(ctx, products)
	if err != nil {
		log.Fatalf("seed products: %v", err)
	}

	log.Printf("Replaced %d existing products with %d seeded products.", deleted, inserted)

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	for category, n := range counts {
		log.Printf("  %-15s %d products", category, n)
	}

	log.Println("Seed complete.")
}
