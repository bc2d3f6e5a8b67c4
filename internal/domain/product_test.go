package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_Available(t *testing.T) {
	assert.True(t, Product{Stock: 1}.Available())
	assert.True(t, Product{Stock: 100}.Available())
	assert.False(t, Product{Stock: 0}.Available())
}

func TestProduct_MatchesCategory(t *testing.T) {
	p := Product{Category: "Electronics"}

	assert.True(t, p.MatchesCategory("Electronics"))
	assert.True(t, p.MatchesCategory("electronics"))
	assert.True(t, p.MatchesCategory("ELECTRONICS"))
	assert.True(t, p.MatchesCategory("  electronics  "))
	assert.False(t, p.MatchesCategory("Sports"))
	assert.False(t, p.MatchesCategory("Electro"))
}

func TestProduct_MatchesSearch(t *testing.T) {
	p := Product{
		Name:        "Sony WH-1000XM5",
		Description: "Premium noise-canceling wireless headphones",
		Category:    "Electronics",
	}

	assert.True(t, p.MatchesSearch("sony"))
	assert.True(t, p.MatchesSearch("1000XM5"))
	assert.True(t, p.MatchesSearch("NOISE-CANCELING"))
	assert.True(t, p.MatchesSearch("headphones"))

	// Category is not part of full-text search.
	assert.False(t, p.MatchesSearch("electronics"))
	assert.False(t, p.MatchesSearch("laptop"))
}

func TestProductPatch_Apply(t *testing.T) {
	seed := SeedProducts()
	original := seed[0]
	product := original

	name := "iPhone 15 Pro"
	price := 1099.99
	stock := 3
	patch := ProductPatch{Name: &name, Price: &price, Stock: &stock}
	patch.Apply(&product)

	assert.Equal(t, "iPhone 15 Pro", product.Name)
	assert.Equal(t, 1099.99, product.Price)
	assert.Equal(t, 3, product.Stock)

	// Untouched fields keep their prior values.
	assert.Equal(t, original.Description, product.Description)
	assert.Equal(t, original.Category, product.Category)
	assert.Equal(t, original.Rating, product.Rating)

	// Identity is immutable.
	assert.Equal(t, original.ID, product.ID)
	assert.Equal(t, original.CreatedAt, product.CreatedAt)
}

func TestProductPatch_IsZero(t *testing.T) {
	assert.True(t, ProductPatch{}.IsZero())

	name := "x"
	assert.False(t, ProductPatch{Name: &name}.IsZero())

	rating := 4.0
	assert.False(t, ProductPatch{Rating: &rating}.IsZero())
}

func TestSeedProducts(t *testing.T) {
	seed := SeedProducts()
	require.Len(t, seed, 8)

	ids := make(map[string]bool, len(seed))
	for i, p := range seed {
		assert.Equal(t, string(rune('1'+i)), p.ID)
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true

		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
		assert.Greater(t, p.Price, 0.0)
		assert.NotEmpty(t, p.Category)
		assert.NotEmpty(t, p.Image)
		assert.GreaterOrEqual(t, p.Stock, 0)
		assert.GreaterOrEqual(t, p.Rating, 0.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.False(t, p.CreatedAt.IsZero())
	}
}

func TestSeedProducts_FreshCopies(t *testing.T) {
	first := SeedProducts()
	first[0].Name = "mutated"

	second := SeedProducts()
	assert.Equal(t, "iPhone 14 Pro", second[0].Name)
}
