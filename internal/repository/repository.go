// Package repository defines the storage contracts for the product catalog.
// Each capability is a separate interface so a backend only needs to
// implement what it is injected for; ProductRepository is the composite that
// both shipping backends satisfy.
package repository

import (
	"context"

	"github.com/shopfront/catalog/internal/domain"
	"github.com/shopfront/catalog/internal/query"
)

// Creator inserts new products.
type Creator interface {
	// Create stores a new product, assigning a fresh unique ID and the
	// creation timestamp. Validation is the caller's responsibility.
	Create(ctx context.Context, input domain.NewProduct) (*domain.Product, error)
}

// Reader provides the lookup operations. "Not found" is reported as a nil
// product with a nil error; only backend failures produce errors.
type Reader interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// FindByCategory matches the category case-insensitively and exactly.
	FindByCategory(ctx context.Context, category string) ([]domain.Product, error)

	// Search performs a case-insensitive substring match against name or
	// description.
	Search(ctx context.Context, text string) ([]domain.Product, error)

	// FindByPriceRange returns products with min <= price <= max.
	FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error)

	// FindInStock returns products with stock > 0.
	FindInStock(ctx context.Context) ([]domain.Product, error)
}

// Updater applies partial patches to existing products.
type Updater interface {
	// Update merges the patch into the stored record. A nil product with a
	// nil error means the ID is unknown.
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
}

// Deleter removes products.
type Deleter interface {
	// Delete hard-deletes a product. The boolean reports whether a record
	// existed to delete.
	Delete(ctx context.Context, id string) (bool, error)

	// Exists reports whether a product with the given ID is stored.
	Exists(ctx context.Context, id string) (bool, error)
}

// Statser provides the aggregate queries backing the stats endpoint.
type Statser interface {
	Count(ctx context.Context) (int, error)

	// AveragePrice returns the mean price over all products, 0 if empty.
	AveragePrice(ctx context.Context) (float64, error)

	// CategoryStats maps each category name to its product count.
	CategoryStats(ctx context.Context) (map[string]int, error)
}

// ProductRepository is the full contract both storage backends implement.
type ProductRepository interface {
	Creator
	Reader
	Updater
	Deleter
	Statser
}

// PriceAggregator is an optional upgrade interface for backends that can
// compute the full price statistics server-side. Backends without it get the
// statistics computed in process from FindAll.
type PriceAggregator interface {
	PriceStatistics(ctx context.Context) (query.PriceStats, error)
}

// Seeder is an optional upgrade interface for backends that support the
// administrative bulk re-seed operation. The in-memory backend does not
// implement it; seeding there happens implicitly at construction.
type Seeder interface {
	// Seed replaces the entire collection with the given products and
	// returns the number of records deleted and inserted.
	Seed(ctx context.Context, products []domain.Product) (deleted, inserted int, err error)
}
