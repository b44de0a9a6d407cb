package handlers

import (
	"net/http"

	"github.com/yachtdrop/backend/internal/application/services"
)

// SearchHandler handles storefront search HTTP requests
type SearchHandler struct {
	searchService   *services.SearchService
	combinedService *services.CombinedSearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, combinedService *services.CombinedSearchService) *SearchHandler {
	return &SearchHandler{
		searchService:   searchService,
		combinedService: combinedService,
	}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 30)

	products, engine, err := h.searchService.Search(r.Context(), query, limit)
	if err != nil {
		respondWithAppError(w, err, "search failed")
		return
	}

	// CDN-friendly: edges may serve stale results while revalidating.
	w.Header().Set("Cache-Control", "public, s-maxage=60, stale-while-revalidate=300")
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":   products,
		"engine": engine,
		"count":  len(products),
	})
}

// SearchCombined handles GET /api/search/combined
func (h *SearchHandler) SearchCombined(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 30)

	result := h.combinedService.Search(r.Context(), query, limit)

	w.Header().Set("Cache-Control", "public, s-maxage=60, stale-while-revalidate=300")
	respondWithJSON(w, http.StatusOK, result)
}

// Suggest handles GET /api/search/suggest
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	suggestions := h.combinedService.Suggest(r.Context(), query)

	w.Header().Set("Cache-Control", "public, s-maxage=30, stale-while-revalidate=120")
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}
