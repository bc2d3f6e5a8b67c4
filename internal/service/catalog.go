// Package service implements the catalog business logic on top of the
// repository contracts. It translates the repositories' absent sentinels
// into typed application errors and publishes domain events for mutations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopfront/catalog/internal/domain"
	"github.com/shopfront/catalog/internal/event"
	"github.com/shopfront/catalog/internal/query"
	"github.com/shopfront/catalog/internal/repository"
	apperrors "github.com/shopfront/catalog/pkg/errors"
)

// CatalogService implements the business logic for catalog operations. The
// storage backend is injected at startup; the optional PriceAggregator and
// Seeder upgrades are discovered per call.
type CatalogService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the caller-supplied fields for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	Stock       int
	Rating      float64
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	Stock       *int
	Rating      *float64
}

// CatalogStats is the aggregate view returned by the stats endpoint.
type CatalogStats struct {
	TotalProducts int              `json:"totalProducts"`
	AveragePrice  float64          `json:"averagePrice"`
	PriceStats    query.PriceStats `json:"priceStats"`
	Categories    map[string]int   `json:"categories"`
	CategoryNames []string         `json:"categoryNames"`
}

// SeedResult reports the outcome of a catalog re-seed.
type SeedResult struct {
	Deleted    int            `json:"deleted"`
	Inserted   int            `json:"inserted"`
	Categories map[string]int `json:"categories"`
}

// ListProducts loads the full product set and runs the query pipeline over
// it.
func (s *CatalogService) ListProducts(ctx context.Context, opts query.Options) (query.Result, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return query.Result{}, fmt.Errorf("list products: %w", err)
	}
	return query.Apply(products, opts), nil
}

// GetProduct retrieves a product by its ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product", id)
	}
	return product, nil
}

// CreateProduct creates a new product from the given input. String fields
// are trimmed before storage; the repository assigns ID and CreatedAt.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	record := domain.NewProduct{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    strings.TrimSpace(input.Category),
		Image:       strings.TrimSpace(input.Image),
		Stock:       input.Stock,
		Rating:      input.Rating,
	}

	if err := validateNewProduct(record); err != nil {
		return nil, err
	}

	product, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("category", product.Category),
	)

	return product, nil
}

// UpdateProduct applies a partial patch to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product", id)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !removed {
		return apperrors.NotFound("product", id)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// CheapestProducts returns the n cheapest products that have stock, sorted
// ascending by price.
func (s *CatalogService) CheapestProducts(ctx context.Context, n int) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cheapest products: %w", err)
	}
	return query.TopCheapestAvailable(products, n), nil
}

// Stats computes the aggregate catalog statistics. Statistics are always
// recomputed from the current product set, never cached. Backends that
// implement PriceAggregator compute min/max/average server-side; everything
// else falls back to an in-process pass over the full set.
func (s *CatalogService) Stats(ctx context.Context) (*CatalogStats, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	average, err := s.repo.AveragePrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("average price: %w", err)
	}

	categories, err := s.repo.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	var priceStats query.PriceStats
	if aggregator, ok := s.repo.(repository.PriceAggregator); ok {
		priceStats, err = aggregator.PriceStatistics(ctx)
		if err != nil {
			return nil, fmt.Errorf("price statistics: %w", err)
		}
	} else {
		products, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load products for statistics: %w", err)
		}
		priceStats = query.Statistics(products)
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	slices.Sort(names)

	return &CatalogStats{
		TotalProducts: count,
		AveragePrice:  average,
		PriceStats:    priceStats,
		Categories:    categories,
		CategoryNames: names,
	}, nil
}

// SeedCatalog replaces the entire collection with the canonical dataset.
// Only backends implementing the Seeder upgrade support this; the in-memory
// backend rejects it since it seeds itself at construction.
func (s *CatalogService) SeedCatalog(ctx context.Context) (*SeedResult, error) {
	seeder, ok := s.repo.(repository.Seeder)
	if !ok {
		return nil, apperrors.Unsupported("seeding is only available with the document-store backend")
	}

	seed := domain.SeedProducts()
	deleted, inserted, err := seeder.Seed(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	if err := s.producer.PublishCatalogSeeded(ctx, deleted, inserted); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish catalog.seeded event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "catalog seeded",
		slog.Int("deleted", deleted),
		slog.Int("inserted", inserted),
	)

	return &SeedResult{
		Deleted:    deleted,
		Inserted:   inserted,
		Categories: query.CategoryStats(seed),
	}, nil
}

// validateNewProduct enforces the product invariants, collecting every
// violation before rejecting.
func validateNewProduct(p domain.NewProduct) error {
	var reasons []string

	if p.Name == "" {
		reasons = append(reasons, "name is required")
	}
	if p.Description == "" {
		reasons = append(reasons, "description is required")
	}
	if p.Price <= 0 {
		reasons = append(reasons, "price must be greater than 0")
	}
	if p.Category == "" {
		reasons = append(reasons, "category is required")
	}
	if p.Image == "" {
		reasons = append(reasons, "image is required")
	}
	if p.Stock < 0 {
		reasons = append(reasons, "stock must not be negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		reasons = append(reasons, "rating must be between 0 and 5")
	}

	if len(reasons) > 0 {
		return apperrors.InvalidInput(strings.Join(reasons, "; "))
	}
	return nil
}

// buildPatch converts the update input into a domain patch, trimming string
// fields and collecting every invariant violation before rejecting.
func buildPatch(input UpdateProductInput) (domain.ProductPatch, error) {
	var (
		patch   domain.ProductPatch
		reasons []string
	)

	trim := func(field, value string) *string {
		v := strings.TrimSpace(value)
		if v == "" {
			reasons = append(reasons, field+" must not be blank")
			return nil
		}
		return &v
	}

	if input.Name != nil {
		patch.Name = trim("name", *input.Name)
	}
	if input.Description != nil {
		patch.Description = trim("description", *input.Description)
	}
	if input.Category != nil {
		patch.Category = trim("category", *input.Category)
	}
	if input.Image != nil {
		patch.Image = trim("image", *input.Image)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			reasons = append(reasons, "price must be greater than 0")
		} else {
			patch.Price = input.Price
		}
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			reasons = append(reasons, "stock must not be negative")
		} else {
			patch.Stock = input.Stock
		}
	}
	if input.Rating != nil {
		if *input.Rating < 0 || *input.Rating > 5 {
			reasons = append(reasons, "rating must be between 0 and 5")
		} else {
			patch.Rating = input.Rating
		}
	}

	if len(reasons) > 0 {
		return domain.ProductPatch{}, apperrors.InvalidInput(strings.Join(reasons, "; "))
	}
	return patch, nil
}
