package handlers

import (
	"net/http"

	"github.com/yachtdrop/backend/internal/application/services"
)

// BundleHandler handles themed bundle HTTP requests
type BundleHandler struct {
	bundleService *services.BundleService
	dev           bool
}

// NewBundleHandler creates a new bundle handler. dev gates the definition
// generator, which spends model tokens and is for operator use only.
func NewBundleHandler(bundleService *services.BundleService, dev bool) *BundleHandler {
	return &BundleHandler{
		bundleService: bundleService,
		dev:           dev,
	}
}

// ListBundles handles GET /api/bundles
func (h *BundleHandler) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles := h.bundleService.List(r.Context())

	w.Header().Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data": bundles,
	})
}

// GenerateBundleDefinitions handles GET /api/bundles/generate
func (h *BundleHandler) GenerateBundleDefinitions(w http.ResponseWriter, r *http.Request) {
	if !h.dev {
		respondWithError(w, http.StatusForbidden, "bundle generation is only available in development")
		return
	}

	draft, err := h.bundleService.GenerateDefinitions(r.Context())
	if err != nil {
		respondWithAppError(w, err, "bundle generation failed")
		return
	}

	respondWithJSON(w, http.StatusOK, draft)
}
