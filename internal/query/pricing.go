package query

import (
	"slices"

	"github.com/shopfront/catalog/internal/domain"
)

// PriceStats holds the derived price statistics for a product set. All four
// values are zero for an empty set, which is an expected outcome rather than
// an error.
type PriceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// Statistics computes min, max, mean, and median over the full product set.
// All four are derived from a single sorted copy of the price list, so
// min <= median <= max and min <= average <= max hold for non-empty sets.
// For an even-length set the median is the mean of the two middle values.
func Statistics(products []domain.Product) PriceStats {
	if len(products) == 0 {
		return PriceStats{}
	}

	prices := make([]float64, len(products))
	var sum float64
	for i, p := range products {
		prices[i] = p.Price
		sum += p.Price
	}
	slices.Sort(prices)

	n := len(prices)
	var median float64
	if n%2 == 0 {
		median = (prices[n/2-1] + prices[n/2]) / 2
	} else {
		median = prices[n/2]
	}

	return PriceStats{
		Min:     prices[0],
		Max:     prices[n-1],
		Average: sum / float64(n),
		Median:  median,
	}
}

// CategoryStats counts products per category, preserving the stored casing of
// each category name.
func CategoryStats(products []domain.Product) map[string]int {
	stats := make(map[string]int)
	for _, p := range products {
		stats[p.Category]++
	}
	return stats
}

// CategoryNames returns the distinct category names in sorted order.
func CategoryNames(products []domain.Product) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			names = append(names, p.Category)
		}
	}
	slices.Sort(names)
	return names
}

// TopCheapestAvailable returns the n cheapest products that have stock,
// sorted ascending by price. It is equivalent to running the general pipeline
// with available=true and sort=price ascending, then taking the first n.
func TopCheapestAvailable(products []domain.Product, n int) []domain.Product {
	available := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Available() {
			available = append(available, p)
		}
	}

	slices.SortStableFunc(available, comparePrice)

	if n < 0 {
		n = 0
	}
	if n > len(available) {
		n = len(available)
	}
	return available[:n]
}
