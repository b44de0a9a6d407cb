package repositories

import (
	"context"

	"github.com/yachtdrop/backend/internal/domain/entities"
)

// PriceRange is the min/max price over a set of products
type PriceRange struct {
	Min float64
	Max float64
}

// ProductSearchRepository is the tiered lexical search backend over the
// product catalog. Each mode is independently invocable so callers can fall
// through tiers on empty or failed results. All modes return only rows with
// available = true and price > 0.
type ProductSearchRepository interface {
	// SearchFullText runs prefix-matched full-text search ordered by rank.
	// Every term must match.
	SearchFullText(ctx context.Context, query string, limit int) ([]*entities.Product, error)

	// SearchFullTextAny is the broadened variant: any term may match.
	// Callers decide when to broaden; the search page never does.
	SearchFullTextAny(ctx context.Context, query string, limit int) ([]*entities.Product, error)

	// SearchSimilarity runs trigram similarity matching on the product name
	SearchSimilarity(ctx context.Context, query string, limit int) ([]*entities.Product, error)

	// SearchSubstring runs case-insensitive substring matching on name and
	// SKU. It must not depend on any database extension.
	SearchSubstring(ctx context.Context, query string, limit int) ([]*entities.Product, error)

	// ListByCategoryNames returns products whose category name is in names
	ListByCategoryNames(ctx context.Context, names []string, limit int) ([]*entities.Product, error)

	// ListByNameKeywords returns products whose name contains any of the
	// keywords, cheapest first
	ListByNameKeywords(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error)

	// ListAvailable returns up to limit purchasable products by name
	ListAvailable(ctx context.Context, limit int) ([]*entities.Product, error)

	// PriceRangeByCategory returns the price range of a category, or nil
	// when the category has no priced items
	PriceRangeByCategory(ctx context.Context, categoryID string) (*PriceRange, error)

	// SampleByCategory returns up to limit representative products
	SampleByCategory(ctx context.Context, categoryID string, limit int) ([]*entities.Product, error)
}
