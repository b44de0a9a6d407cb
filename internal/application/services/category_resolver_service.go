package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/repositories"
)

// CategoryResolverService resolves category IDs to display names with a
// process-lifetime cache. The id→name map is loaded once on first use; a
// failed load caches an empty map so chat turns never block on a broken
// category table.
type CategoryResolverService struct {
	categories repositories.CategoryRepository

	mu     sync.Mutex
	names  map[string]string
	loaded bool
}

// NewCategoryResolverService creates a category name resolver
func NewCategoryResolverService(categories repositories.CategoryRepository) *CategoryResolverService {
	return &CategoryResolverService{categories: categories}
}

// Resolve returns the category name, or "General" for unknown ids
func (s *CategoryResolverService) Resolve(ctx context.Context, categoryID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.names = map[string]string{}
		categories, err := s.categories.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load category names, defaulting everything to General")
		} else {
			for _, category := range categories {
				s.names[category.ID] = category.Name
			}
		}
		s.loaded = true
	}

	if name, ok := s.names[categoryID]; ok {
		return name
	}
	return "General"
}
