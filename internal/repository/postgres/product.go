// Package postgres implements the document-store product repository on
// PostgreSQL. Records are keyed on the logical product id, never on any
// storage-internal identifier, and aggregate statistics are computed
// server-side where SQL allows it.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shopfront/catalog/internal/domain"
	"github.com/shopfront/catalog/internal/query"
	"github.com/shopfront/catalog/pkg/database"
)

const productColumns = "id, name, description, price, category, image, stock, rating, created_at"

// ProductRepository implements the full repository contract plus the
// PriceAggregator and Seeder upgrades using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product. The next id is the current maximum logical
// id plus one, bootstrapping at 1 for an empty collection; the read and the
// insert run in one transaction so ids stay unique under concurrency.
func (r *ProductRepository) Create(ctx context.Context, input domain.NewProduct) (*domain.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var nextID int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(id::integer), 0) + 1 FROM products`,
	).Scan(&nextID); err != nil {
		return nil, fmt.Errorf("determine next product id: %w", err)
	}

	product := domain.Product{
		ID:          fmt.Sprintf("%d", nextID),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		Stock:       input.Stock,
		Rating:      input.Rating,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO products (id, name, description, price, category, image, stock, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Image,
		product.Stock,
		product.Rating,
		product.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit product creation: %w", err)
	}

	return &product, nil
}

// FindAll returns all products, newest first.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx, fmt.Sprintf(
		`SELECT %s FROM products ORDER BY created_at DESC`, productColumns,
	))
}

// FindByID returns the product with the given logical id, or nil if absent.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE id = $1`, productColumns,
	), id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return product, nil
}

// FindByCategory matches the category case-insensitively and exactly.
func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.queryProducts(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE LOWER(category) = LOWER($1) ORDER BY created_at DESC`, productColumns,
	), strings.TrimSpace(category))
}

// Search performs a case-insensitive substring match against name or
// description.
func (r *ProductRepository) Search(ctx context.Context, text string) ([]domain.Product, error) {
	pattern := "%" + escapeLike(text) + "%"
	return r.queryProducts(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE name ILIKE $1 OR description ILIKE $1 ORDER BY created_at DESC`, productColumns,
	), pattern)
}

// FindByPriceRange returns products with min <= price <= max, cheapest first.
func (r *ProductRepository) FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error) {
	return r.queryProducts(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE price >= $1 AND price <= $2 ORDER BY price ASC`, productColumns,
	), min, max)
}

// FindInStock returns products with stock > 0, newest first.
func (r *ProductRepository) FindInStock(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE stock > 0 ORDER BY created_at DESC`, productColumns,
	))
}

// Update applies the patch to the stored record and returns the updated
// product, or nil if the id is unknown. Only patched columns appear in the
// SET clause.
func (r *ProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.IsZero() {
		return r.FindByID(ctx, id)
	}

	var (
		assignments []string
		args        []any
		argIndex    = 1
	)

	addField := func(column string, value any) {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Name != nil {
		addField("name", *patch.Name)
	}
	if patch.Description != nil {
		addField("description", *patch.Description)
	}
	if patch.Price != nil {
		addField("price", *patch.Price)
	}
	if patch.Category != nil {
		addField("category", *patch.Category)
	}
	if patch.Image != nil {
		addField("image", *patch.Image)
	}
	if patch.Stock != nil {
		addField("stock", *patch.Stock)
	}
	if patch.Rating != nil {
		addField("rating", *patch.Rating)
	}

	args = append(args, id)
	sql := fmt.Sprintf(
		`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(assignments, ", "), argIndex, productColumns,
	)

	product, err := scanProduct(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes the product with the given id. The boolean reports whether
// a record existed to delete.
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Exists reports whether a product with the given id is stored.
func (r *ProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product existence: %w", err)
	}
	return exists, nil
}

// Count returns the number of stored products.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// AveragePrice returns the mean price rounded to two decimal places, 0 for
// an empty collection.
func (r *ProductRepository) AveragePrice(ctx context.Context) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(ROUND(AVG(price)::numeric, 2), 0)::float8 FROM products`,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average price: %w", err)
	}
	return avg, nil
}

// CategoryStats groups products by category server-side.
func (r *ProductRepository) CategoryStats(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM products GROUP BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}

	return stats, nil
}

// PriceStatistics computes min, max, and average server-side in one grouped
// query, then derives the median from the sorted price list since SQL has no
// native median aggregate. All values are rounded to two decimal places.
func (r *ProductRepository) PriceStatistics(ctx context.Context) (query.PriceStats, error) {
	var (
		stats query.PriceStats
		count int
	)
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(MIN(price), 0),
		       COALESCE(MAX(price), 0),
		       COALESCE(ROUND(AVG(price)::numeric, 2), 0)::float8
		FROM products`,
	).Scan(&count, &stats.Min, &stats.Max, &stats.Average)
	if err != nil {
		return query.PriceStats{}, fmt.Errorf("price statistics: %w", err)
	}

	if count == 0 {
		return query.PriceStats{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT price FROM products ORDER BY price ASC`)
	if err != nil {
		return query.PriceStats{}, fmt.Errorf("load sorted prices: %w", err)
	}
	defer rows.Close()

	prices := make([]float64, 0, count)
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			return query.PriceStats{}, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, price)
	}
	if err := rows.Err(); err != nil {
		return query.PriceStats{}, fmt.Errorf("iterate prices: %w", err)
	}

	n := len(prices)
	var median float64
	if n%2 == 0 {
		median = (prices[n/2-1] + prices[n/2]) / 2
	} else {
		median = prices[n/2]
	}
	stats.Median = round2(median)

	return stats, nil
}

// Seed replaces the entire collection with the given products inside one
// transaction and reports how many records were deleted and inserted.
func (r *ProductRepository) Seed(ctx context.Context, products []domain.Product) (int, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, 0, fmt.Errorf("clear products: %w", err)
	}
	deleted := int(ct.RowsAffected())

	for _, p := range products {
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (id, name, description, price, category, image, stock, rating, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.Name, p.Description, p.Price, p.Category, p.Image, p.Stock, p.Rating, p.CreatedAt,
		); err != nil {
			return 0, 0, fmt.Errorf("insert seed product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit seed: %w", err)
	}

	return deleted, len(products), nil
}

// queryProducts runs a query returning product rows and scans them all.
func (r *ProductRepository) queryProducts(ctx context.Context, sql string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Image, &p.Stock, &p.Rating, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// scanProduct scans a single product row.
func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Image, &p.Stock, &p.Rating, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// escapeLike escapes LIKE metacharacters so user text matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
