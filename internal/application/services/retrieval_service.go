package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/repositories"
)

// RetrievalService executes a search plan: one lexical search per query
// phrase plus an optional category-restricted query, fused into a single
// deduplicated ranking. Sub-query failures are logged and contribute nothing;
// the fusion result is best-effort by design.
type RetrievalService struct {
	products repositories.ProductSearchRepository
}

// NewRetrievalService creates a retrieval fusion service
func NewRetrievalService(products repositories.ProductSearchRepository) *RetrievalService {
	return &RetrievalService{products: products}
}

// Retrieve runs the plan and returns up to limit products, ranked by how
// many query phrases each product matched
func (s *RetrievalService) Retrieve(ctx context.Context, plan *entities.SearchPlan, limit int) []*entities.Product {
	if plan == nil || limit <= 0 {
		return []*entities.Product{}
	}

	queries := plan.Queries
	if len(queries) > maxPlanQueries {
		queries = queries[:maxPlanQueries]
	}

	// Slot 0..n-1 hold per-phrase results, the last slot the category query.
	resultSets := make([][]*entities.Product, len(queries)+1)
	var wg sync.WaitGroup

	for i, q := range queries {
		// The first phrase is the most specific one and gets the full
		// result budget; the rest get a small slice each so they can't
		// dilute the ranking.
		perQuery := limit
		if i > 0 {
			perQuery = (limit+len(queries)-1)/len(queries) + 2
		}

		wg.Add(1)
		go func(slot int, query string, n int) {
			defer wg.Done()
			rows, err := s.lexical(ctx, query, n)
			if err != nil {
				log.Warn().Err(err).Str("query", query).Msg("Retrieval sub-query failed")
				return
			}
			resultSets[slot] = rows
		}(i, q, perQuery)
	}

	if len(plan.Categories) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := s.products.ListByCategoryNames(ctx, plan.Categories, limit)
			if err != nil {
				log.Warn().Err(err).Strs("categories", plan.Categories).Msg("Category retrieval failed")
				return
			}
			resultSets[len(queries)] = rows
		}()
	}

	wg.Wait()

	// Merge phrase results with hit counting; category rows only fill in
	// products no phrase found, at rank zero.
	order := []*entities.Product{}
	hits := map[string]int{}
	seen := map[string]bool{}
	for _, rows := range resultSets[:len(queries)] {
		for _, product := range rows {
			hits[product.ID]++
			if !seen[product.ID] {
				seen[product.ID] = true
				order = append(order, product)
			}
		}
	}
	for _, product := range resultSets[len(queries)] {
		if !seen[product.ID] {
			seen[product.ID] = true
			order = append(order, product)
		}
	}

	// Stable: ties keep first-seen order, i.e. the primary phrase wins.
	sort.SliceStable(order, func(i, j int) bool {
		return hits[order[i].ID] > hits[order[j].ID]
	})

	if plan.PriceMax != nil && *plan.PriceMax > 0 {
		filtered := make([]*entities.Product, 0, len(order))
		for _, product := range order {
			if product.Price <= *plan.PriceMax {
				filtered = append(filtered, product)
			}
		}
		order = filtered
	}

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// lexical is the per-phrase search: full-text with all terms, broadened to
// any-term matching when a multi-word phrase finds nothing, substring scan
// when the structured tier errors. Similarity matching is deliberately not
// used here; fuzzy matches across several fused phrases produce mostly noise.
func (s *RetrievalService) lexical(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entities.Product{}, nil
	}

	rows, err := s.products.SearchFullText(ctx, query, limit)
	if err != nil {
		return s.products.SearchSubstring(ctx, query, limit)
	}
	if len(rows) == 0 && len(strings.Fields(query)) > 1 {
		return s.products.SearchFullTextAny(ctx, query, limit)
	}
	return rows, nil
}
