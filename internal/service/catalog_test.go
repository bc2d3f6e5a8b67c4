package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/catalog/internal/domain"
	"github.com/shopfront/catalog/internal/event"
	"github.com/shopfront/catalog/internal/query"
	"github.com/shopfront/catalog/internal/repository/memory"
	apperrors "github.com/shopfront/catalog/pkg/errors"
	pkgkafka "github.com/shopfront/catalog/pkg/kafka"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestService wires the service to the in-memory repository. The Kafka
// producer points at an unreachable broker; publish failures are logged, not
// surfaced, so tests exercise the degraded-event path for free.
func newTestService(repo *memory.Repository) *CatalogService {
	logger := newTestLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:19092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	return NewCatalogService(repo, producer, logger)
}

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:        "  Mechanical Keyboard  ",
		Description: "Hot-swappable 75% board",
		Price:       129.99,
		Category:    "Electronics",
		Image:       "https://example.com/keyboard.jpg",
		Stock:       10,
		Rating:      4.4,
	}
}

func TestCreateProduct_TrimsAndAssignsID(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	product, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "9", product.ID)
	assert.Equal(t, "Mechanical Keyboard", product.Name, "name should be trimmed")
	assert.False(t, product.CreatedAt.IsZero())
}

func TestCreateProduct_CollectsAllViolations(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:   "   ",
		Price:  -1,
		Stock:  -5,
		Rating: 6,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Every violated invariant appears in one error report.
	msg := err.Error()
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "description is required")
	assert.Contains(t, msg, "price must be greater than 0")
	assert.Contains(t, msg, "image is required")
	assert.Contains(t, msg, "stock must not be negative")
	assert.Contains(t, msg, "rating must be between 0 and 5")
}

func TestGetProduct(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	product, err := svc.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 14 Pro", product.Name)

	_, err = svc.GetProduct(context.Background(), "404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListProducts_RunsPipeline(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	result, err := svc.ListProducts(context.Background(), query.Options{
		Category: "Electronics",
		Sort:     "price",
		Limit:    "2",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "4", result.Items[0].ID, "Sony headphones are the cheapest electronics")
}

func TestUpdateProduct(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	stock := 0
	product, err := svc.UpdateProduct(context.Background(), "3", UpdateProductInput{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
	assert.Equal(t, "Nike Air Max 270", product.Name)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	name := "Ghost"
	_, err := svc.UpdateProduct(context.Background(), "404", UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateProduct_InvalidPatch(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	price := -10.0
	rating := 9.5
	_, err := svc.UpdateProduct(context.Background(), "1", UpdateProductInput{Price: &price, Rating: &rating})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "price must be greater than 0")
	assert.Contains(t, err.Error(), "rating must be between 0 and 5")

	// The stored record is untouched after a rejected patch.
	product, err := svc.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 999.99, product.Price)
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	require.NoError(t, svc.DeleteProduct(context.Background(), "6"))

	err := svc.DeleteProduct(context.Background(), "6")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "second delete reports not found")
}

func TestCheapestProducts(t *testing.T) {
	repo := memory.NewRepository()
	svc := newTestService(repo)

	zero := 0
	_, err := repo.Update(context.Background(), "5", domain.ProductPatch{Stock: &zero})
	require.NoError(t, err)

	cheapest, err := svc.CheapestProducts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, cheapest, 3)

	// Jeans (89.99) are out of stock, so Nike (150), Adidas (180), KitchenAid (379.99).
	assert.Equal(t, "3", cheapest[0].ID)
	assert.Equal(t, "7", cheapest[1].ID)
	assert.Equal(t, "6", cheapest[2].ID)
}

func TestStats_InMemoryFallback(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TotalProducts)
	assert.Equal(t, []string{"Clothing", "Electronics", "Home & Kitchen", "Sports"}, stats.CategoryNames)
	assert.Equal(t, 4, stats.Categories["Electronics"])
	assert.Equal(t, 89.99, stats.PriceStats.Min)
	assert.Equal(t, 1499.99, stats.PriceStats.Max)
	assert.InDelta(t, stats.AveragePrice, stats.PriceStats.Average, 1e-9)
}

func TestStats_Empty(t *testing.T) {
	svc := newTestService(memory.NewRepositoryWith(nil))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.AveragePrice)
	assert.Equal(t, query.PriceStats{}, stats.PriceStats)
	assert.Empty(t, stats.CategoryNames)
}

func TestSeedCatalog_UnsupportedOnMemoryBackend(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	_, err := svc.SeedCatalog(context.Background())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNSUPPORTED_OPERATION", appErr.Code)
}

// seedableRepo decorates the memory repository with a stub Seeder upgrade.
type seedableRepo struct {
	*memory.Repository
	seedErr  error
	received []domain.Product
}

func (r *seedableRepo) Seed(ctx context.Context, products []domain.Product) (int, int, error) {
	if r.seedErr != nil {
		return 0, 0, r.seedErr
	}
	r.received = products
	return 2, len(products), nil
}

func TestSeedCatalog_SeederBackend(t *testing.T) {
	repo := &seedableRepo{Repository: memory.NewRepository()}
	logger := newTestLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:19092"}), logger)
	svc := NewCatalogService(repo, event.NewProducer(kafkaProducer, logger), logger)

	result, err := svc.SeedCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 8, result.Inserted)
	assert.Equal(t, 4, result.Categories["Electronics"])
	assert.Len(t, repo.received, 8)
}

func TestSeedCatalog_BackendFailure(t *testing.T) {
	repo := &seedableRepo{Repository: memory.NewRepository(), seedErr: errors.New("connection refused")}
	logger := newTestLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:19092"}), logger)
	svc := NewCatalogService(repo, event.NewProducer(kafkaProducer, logger), logger)

	_, err := svc.SeedCatalog(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidInput)
}
