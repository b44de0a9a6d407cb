package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yachtdrop/backend/internal/domain/repositories"
)

const defaultCatalogTTL = 10 * time.Minute

// CatalogContextService builds the plain-text catalog summary injected into
// planner prompts: one line per category with product count, price range and
// sample product names. The summary is rebuilt at most once per TTL; staleness
// within the TTL is accepted.
type CatalogContextService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductSearchRepository
	ttl        time.Duration
	now        func() time.Time

	mu      sync.Mutex
	text    string
	builtAt time.Time
}

// NewCatalogContextService creates a catalog context service. A non-positive
// ttl selects the 10 minute default.
func NewCatalogContextService(categories repositories.CategoryRepository, products repositories.ProductSearchRepository, ttl time.Duration) *CatalogContextService {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogContextService{
		categories: categories,
		products:   products,
		ttl:        ttl,
		now:        time.Now,
	}
}

// SetClock overrides the time source, used by tests to control expiry
func (s *CatalogContextService) SetClock(now func() time.Time) {
	s.now = now
}

// Context returns the cached summary, rebuilding it when expired
func (s *CatalogContextService) Context(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.text != "" && s.now().Sub(s.builtAt) < s.ttl {
		return s.text, nil
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(categories))
	totalProducts := 0
	for _, category := range categories {
		totalProducts += category.ProductCount

		priceLabel := "€?-€?"
		if priceRange, err := s.products.PriceRangeByCategory(ctx, category.ID); err == nil && priceRange != nil {
			priceLabel = fmt.Sprintf("€%.0f-€%.0f", priceRange.Min, priceRange.Max)
		}

		names := ""
		if samples, err := s.products.SampleByCategory(ctx, category.ID, 5); err == nil {
			parts := make([]string, 0, len(samples))
			for _, product := range samples {
				if product.Brand != "" {
					parts = append(parts, fmt.Sprintf("%s (%s)", product.Name, product.Brand))
				} else {
					parts = append(parts, product.Name)
				}
			}
			names = strings.Join(parts, ", ")
		}

		lines = append(lines, fmt.Sprintf("- %s (%d items, %s): %s",
			category.Name, category.ProductCount, priceLabel, names))
	}

	text := fmt.Sprintf("YachtDrop marine supplies catalog — %d products across %d categories:\n%s",
		totalProducts, len(categories), strings.Join(lines, "\n"))

	s.text = text
	s.builtAt = s.now()
	return text, nil
}
