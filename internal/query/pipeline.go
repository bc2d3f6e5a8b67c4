// Package query implements the stateless product query pipeline: filtering,
// sorting, pagination, and price statistics over an in-memory product set.
package query

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shopfront/catalog/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// nameCollator performs locale-aware name comparison for sorting.
var nameCollator = collate.New(language.English, collate.Loose)

// Options carries the raw query parameters as received on the wire. All
// fields are optional; blank or unparseable values fall back to defaults
// rather than producing an error.
type Options struct {
	Category  string
	Search    string
	MaxPrice  string
	Sort      string
	Order     string
	Available string
	Page      string
	Limit     string
}

// Result is one page of products plus pagination metadata.
type Result struct {
	Items      []domain.Product
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Apply runs the full pipeline over the given product set. Stages execute in
// a fixed order, each narrowing the previous stage's output:
// category filter, text search, max-price filter, availability filter,
// sort, pagination.
func Apply(products []domain.Product, opts Options) Result {
	result := make([]domain.Product, len(products))
	copy(result, products)

	if category := strings.TrimSpace(opts.Category); category != "" {
		result = slices.DeleteFunc(result, func(p domain.Product) bool {
			return !p.MatchesCategory(category)
		})
	}

	if search := strings.TrimSpace(opts.Search); search != "" {
		result = slices.DeleteFunc(result, func(p domain.Product) bool {
			return !p.MatchesSearch(search)
		})
	}

	if opts.MaxPrice != "" {
		if limit, err := strconv.ParseFloat(strings.TrimSpace(opts.MaxPrice), 64); err == nil && limit > 0 {
			result = slices.DeleteFunc(result, func(p domain.Product) bool {
				return p.Price > limit
			})
		}
	}

	switch opts.Available {
	case "true":
		result = slices.DeleteFunc(result, func(p domain.Product) bool {
			return p.Stock == 0
		})
	case "false":
		result = slices.DeleteFunc(result, func(p domain.Product) bool {
			return p.Stock > 0
		})
	}

	sortProducts(result, opts.Sort, opts.Order)

	page := parsePositive(opts.Page, defaultPage)
	limit := parsePositive(opts.Limit, defaultLimit)

	total := len(result)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Result{
		Items:      result[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// sortProducts orders the set by price or by locale-aware name. Unknown sort
// fields leave the original order untouched.
func sortProducts(products []domain.Product, field, order string) {
	desc := order == "desc"

	switch field {
	case "price":
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			c := comparePrice(a, b)
			if desc {
				return -c
			}
			return c
		})
	case "name":
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			c := nameCollator.CompareString(a.Name, b.Name)
			if desc {
				return -c
			}
			return c
		})
	}
}

func comparePrice(a, b domain.Product) int {
	switch {
	case a.Price < b.Price:
		return -1
	case a.Price > b.Price:
		return 1
	default:
		return 0
	}
}

// parsePositive parses a page or limit parameter. Blank, unparseable, or zero
// values fall back to the default; negative values clamp to 1.
func parsePositive(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return fallback
	}
	if n < 1 {
		return 1
	}
	return n
}
