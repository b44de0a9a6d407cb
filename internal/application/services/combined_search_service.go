package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/repositories"
)

const maxSuggestions = 8

// CombinedResult pairs product and marina hits for a single query
type CombinedResult struct {
	Products []*entities.Product `json:"products"`
	Marinas  []*entities.Marina  `json:"marinas"`
	Engine   Engine              `json:"engine"`
}

// CombinedSearchService answers the omnibox: products and marinas searched
// concurrently, plus typeahead suggestions drawing from categories, marinas
// and products. Either side failing degrades to empty rather than erroring
// the whole response.
type CombinedSearchService struct {
	search     *SearchService
	marinas    *MarinaSearchService
	categories repositories.CategoryRepository
}

// NewCombinedSearchService creates a combined search service
func NewCombinedSearchService(search *SearchService, marinas *MarinaSearchService, categories repositories.CategoryRepository) *CombinedSearchService {
	return &CombinedSearchService{search: search, marinas: marinas, categories: categories}
}

// Search runs product and marina search for the same query in parallel
func (s *CombinedSearchService) Search(ctx context.Context, query string, limit int) *CombinedResult {
	result := &CombinedResult{
		Products: []*entities.Product{},
		Marinas:  []*entities.Marina{},
		Engine:   EngineFullText,
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		products, engine, err := s.search.Search(ctx, query, limit)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("Product side of combined search failed")
			return
		}
		result.Engine = engine
		if products != nil {
			result.Products = products
		}
	}()

	go func() {
		defer wg.Done()
		marinas, err := s.marinas.Search(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("Marina side of combined search failed")
			return
		}
		if marinas != nil {
			result.Marinas = marinas
		}
	}()

	wg.Wait()
	return result
}

// Suggest builds typeahead entries: up to three matching categories, up to
// three marinas, then products to fill the list out to eight.
func (s *CombinedSearchService) Suggest(ctx context.Context, query string) []*entities.Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return []*entities.Suggestion{}
	}

	suggestions := []*entities.Suggestion{}
	lowered := strings.ToLower(query)

	if categories, err := s.categories.List(ctx); err == nil {
		count := 0
		for _, c := range categories {
			if count >= 3 {
				break
			}
			if !strings.Contains(strings.ToLower(c.Name), lowered) {
				continue
			}
			suggestions = append(suggestions, &entities.Suggestion{
				ID:       c.ID,
				Type:     entities.SuggestionTypeCategory,
				Label:    c.Name,
				Subtitle: fmt.Sprintf("%d products", c.ProductCount),
				Icon:     c.Icon,
			})
			count++
		}
	} else {
		log.Warn().Err(err).Msg("Category suggestions unavailable")
	}

	if marinas, err := s.marinas.Search(ctx, query); err == nil {
		for i, m := range marinas {
			if i >= 3 {
				break
			}
			suggestions = append(suggestions, &entities.Suggestion{
				ID:       m.ID,
				Type:     entities.SuggestionTypeMarina,
				Label:    m.Name,
				Subtitle: marinaLocation(m),
			})
		}
	}

	remaining := maxSuggestions - len(suggestions)
	if remaining <= 0 {
		return suggestions
	}

	products, _, err := s.search.Search(ctx, query, remaining)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Product suggestions unavailable")
		return suggestions
	}
	for _, p := range products {
		subtitle := p.Brand
		if subtitle == "" {
			subtitle = fmt.Sprintf("€%.2f", p.Price)
		}
		suggestions = append(suggestions, &entities.Suggestion{
			ID:       p.ID,
			Type:     entities.SuggestionTypeProduct,
			Label:    p.Name,
			Subtitle: subtitle,
		})
	}

	return suggestions
}

func marinaLocation(m *entities.Marina) string {
	parts := []string{}
	if m.City != "" {
		parts = append(parts, m.City)
	}
	if m.Country != "" {
		parts = append(parts, m.Country)
	}
	return strings.Join(parts, ", ")
}
