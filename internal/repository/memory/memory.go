// Package memory provides the in-memory product repository. It is the
// default backend and serves as the behavioral oracle for the document-store
// implementation.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopfront/catalog/internal/domain"
)

// Repository holds the authoritative product set in process memory. A single
// mutex guards the collection so each operation is atomic relative to
// concurrent requests. IDs are issued from a monotonic counter that is never
// reused, even after deletes.
type Repository struct {
	mu       sync.RWMutex
	products []domain.Product
	nextID   int
}

// NewRepository creates a repository seeded with the canonical dataset.
func NewRepository() *Repository {
	return NewRepositoryWith(domain.SeedProducts())
}

// NewRepositoryWith creates a repository holding the given products. The ID
// counter starts above the highest numeric ID present.
func NewRepositoryWith(products []domain.Product) *Repository {
	owned := make([]domain.Product, len(products))
	copy(owned, products)

	nextID := 1
	for _, p := range owned {
		if n, err := strconv.Atoi(p.ID); err == nil && n >= nextID {
			nextID = n + 1
		}
	}

	return &Repository{products: owned, nextID: nextID}
}

// Create stores a new product with a freshly assigned ID and timestamp.
func (r *Repository) Create(ctx context.Context, input domain.NewProduct) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product := domain.Product{
		ID:          strconv.Itoa(r.nextID),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		Stock:       input.Stock,
		Rating:      input.Rating,
		CreatedAt:   time.Now().UTC(),
	}

	r.products = append(r.products, product)
	r.nextID++

	return &product, nil
}

// FindAll returns a copy of the full product set.
func (r *Repository) FindAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// FindByID returns the product with the given ID, or nil if absent.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// FindByCategory returns products in the given category, matched
// case-insensitively.
func (r *Repository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if p.MatchesCategory(category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Search returns products whose name or description contains the query,
// case-insensitively.
func (r *Repository) Search(ctx context.Context, text string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if p.MatchesSearch(text) {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindByPriceRange returns products with min <= price <= max.
func (r *Repository) FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if p.Price >= min && p.Price <= max {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindInStock returns products with stock > 0.
func (r *Repository) FindInStock(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if p.Available() {
			out = append(out, p)
		}
	}
	return out, nil
}

// Update merges the patch into the stored product. Returns nil if the ID is
// unknown.
func (r *Repository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == id {
			patch.Apply(&r.products[i])
			updated := r.products[i]
			return &updated, nil
		}
	}
	return nil, nil
}

// Delete removes the product with the given ID. The boolean reports whether
// a record existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Exists reports whether a product with the given ID is stored.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of stored products.
func (r *Repository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.products), nil
}

// AveragePrice returns the mean price over all products, 0 if empty.
func (r *Repository) AveragePrice(ctx context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.products) == 0 {
		return 0, nil
	}

	var sum float64
	for _, p := range r.products {
		sum += p.Price
	}
	return sum / float64(len(r.products)), nil
}

// CategoryStats maps each category name to its product count.
func (r *Repository) CategoryStats(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]int)
	for _, p := range r.products {
		stats[p.Category]++
	}
	return stats, nil
}
