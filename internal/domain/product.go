package domain

import (
	"strings"
	"time"
)

// Product represents a single catalog entry. The ID and CreatedAt fields are
// assigned by the repository on creation and never change afterwards.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Available reports whether the product has stock to sell.
func (p Product) Available() bool {
	return p.Stock > 0
}

// MatchesCategory reports whether the product belongs to the given category,
// compared case-insensitively. Storage keeps the original casing.
func (p Product) MatchesCategory(category string) bool {
	return strings.EqualFold(p.Category, strings.TrimSpace(category))
}

// MatchesSearch reports whether the query is a case-insensitive substring of
// the product name or description. Category is deliberately excluded from
// full-text search.
func (p Product) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// NewProduct holds the caller-supplied fields for creating a product. The
// repository fills in ID and CreatedAt.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	Stock       int
	Rating      float64
}

// ProductPatch is a partial update. Nil fields are left unchanged; ID and
// CreatedAt can never be patched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	Stock       *int
	Rating      *float64
}

// IsZero reports whether the patch changes nothing.
func (p ProductPatch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Image == nil && p.Stock == nil && p.Rating == nil
}

// Apply merges the patch into the product, leaving ID and CreatedAt intact.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Rating != nil {
		product.Rating = *p.Rating
	}
}

// SeedProducts returns the canonical dataset used to initialize the in-memory
// store and to re-seed the document store. IDs "1" through "8" are reserved
// for these records; freshly created products start at "9".
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "iPhone 14 Pro",
			Description: "Latest Apple smartphone with Pro camera system",
			Price:       999.99,
			Category:    "Electronics",
			Image:       "https://example.com/iphone14pro.jpg",
			Stock:       25,
			Rating:      4.8,
			CreatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			Name:        "MacBook Air M2",
			Description: "Lightweight laptop with Apple M2 chip",
			Price:       1299.99,
			Category:    "Electronics",
			Image:       "https://example.com/macbook-air.jpg",
			Stock:       15,
			Rating:      4.9,
			CreatedAt:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "3",
			Name:        "Nike Air Max 270",
			Description: "Comfortable running shoes with Air Max technology",
			Price:       150.00,
			Category:    "Sports",
			Image:       "https://example.com/nike-airmax.jpg",
			Stock:       50,
			Rating:      4.5,
			CreatedAt:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "4",
			Name:        "Sony WH-1000XM5",
			Description: "Premium noise-canceling wireless headphones",
			Price:       399.99,
			Category:    "Electronics",
			Image:       "https://example.com/sony-headphones.jpg",
			Stock:       30,
			Rating:      4.7,
			CreatedAt:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "5",
			Name:        "Levi's 501 Original Jeans",
			Description: "Classic straight-leg jeans",
			Price:       89.99,
			Category:    "Clothing",
			Image:       "https://example.com/levis-jeans.jpg",
			Stock:       100,
			Rating:      4.3,
			CreatedAt:   time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "6",
			Name:        "KitchenAid Stand Mixer",
			Description: "Professional 5-quart stand mixer",
			Price:       379.99,
			Category:    "Home & Kitchen",
			Image:       "https://example.com/kitchenaid-mixer.jpg",
			Stock:       12,
			Rating:      4.8,
			CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "7",
			Name:        "Adidas Ultraboost 22",
			Description: "Energy-returning running shoes",
			Price:       180.00,
			Category:    "Sports",
			Image:       "https://example.com/adidas-ultraboost.jpg",
			Stock:       40,
			Rating:      4.6,
			CreatedAt:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "8",
			Name:        `Samsung 65" QLED TV`,
			Description: "4K Smart TV with Quantum Dot technology",
			Price:       1499.99,
			Category:    "Electronics",
			Image:       "https://example.com/samsung-tv.jpg",
			Stock:       8,
			Rating:      4.7,
			CreatedAt:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}
