package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/repositories"
	"github.com/yachtdrop/backend/internal/infrastructure/observability"
)

// Engine labels which search tier produced a result set
type Engine string

const (
	EngineFullText   Engine = "fts"
	EngineSimilarity Engine = "trgm"
	EngineSubstring  Engine = "ilike"
)

// SearchService is the search-page path: full-text first, trigram similarity
// when full-text finds nothing (typos), plain substring scan when either
// structured tier errors (missing extension, bad tsquery).
type SearchService struct {
	products repositories.ProductSearchRepository
	metrics  *observability.Metrics
}

// NewSearchService creates a search service. metrics may be nil.
func NewSearchService(products repositories.ProductSearchRepository, metrics *observability.Metrics) *SearchService {
	return &SearchService{products: products, metrics: metrics}
}

// Search returns matching products and the engine tier that served them.
// An empty or whitespace query returns an empty result without touching
// the database.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]*entities.Product, Engine, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entities.Product{}, EngineFullText, nil
	}

	engine := EngineFullText
	products, err := s.products.SearchFullText(ctx, query, limit)

	if err == nil && len(products) == 0 {
		engine = EngineSimilarity
		products, err = s.products.SearchSimilarity(ctx, query, limit)
	}

	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Structured search tier failed, falling back to substring scan")
		engine = EngineSubstring
		products, err = s.products.SearchSubstring(ctx, query, limit)
		if err != nil {
			return nil, engine, err
		}
	}

	if s.metrics != nil {
		observability.RecordSearchMetric(ctx, s.metrics, string(engine), len(products))
	}
	return products, engine, nil
}
