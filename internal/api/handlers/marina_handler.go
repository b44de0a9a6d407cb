package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/yachtdrop/backend/internal/application/services"
)

// MarinaHandler handles marina directory HTTP requests
type MarinaHandler struct {
	marinaService *services.MarinaSearchService
	validate      *validator.Validate
}

// NewMarinaHandler creates a new marina handler
func NewMarinaHandler(marinaService *services.MarinaSearchService) *MarinaHandler {
	return &MarinaHandler{
		marinaService: marinaService,
		validate:      validator.New(),
	}
}

// LookupMarinas handles GET /api/marinas
func (h *MarinaHandler) LookupMarinas(w http.ResponseWriter, r *http.Request) {
	lookup := services.MarinaLookup{
		Query: r.URL.Query().Get("q"),
	}

	if latRaw := r.URL.Query().Get("lat"); latRaw != "" {
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil || lat < -90 || lat > 90 {
			respondWithError(w, http.StatusBadRequest, "invalid lat parameter")
			return
		}
		lookup.Lat = &lat
	}
	if lngRaw := r.URL.Query().Get("lng"); lngRaw != "" {
		lng, err := strconv.ParseFloat(lngRaw, 64)
		if err != nil || lng < -180 || lng > 180 {
			respondWithError(w, http.StatusBadRequest, "invalid lng parameter")
			return
		}
		lookup.Lng = &lng
	}
	if (lookup.Lat == nil) != (lookup.Lng == nil) {
		respondWithError(w, http.StatusBadRequest, "lat and lng must be provided together")
		return
	}
	if radiusRaw := r.URL.Query().Get("radius"); radiusRaw != "" {
		radius, err := strconv.ParseFloat(radiusRaw, 64)
		if err != nil || radius <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid radius parameter")
			return
		}
		lookup.RadiusKm = radius
	}

	marinas, source, err := h.marinaService.Lookup(r.Context(), lookup)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "marina lookup failed")
		return
	}

	// Live OSM responses are the expensive path; let edges hold them longer.
	if source == services.MarinaSourceOSM {
		w.Header().Set("Cache-Control", "public, s-maxage=600, stale-while-revalidate=1800")
	} else {
		w.Header().Set("Cache-Control", "public, s-maxage=120, stale-while-revalidate=600")
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":   marinas,
		"source": source,
		"count":  len(marinas),
	})
}

type createMarinaRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=200"`
	City    string  `json:"city" validate:"max=100"`
	Country string  `json:"country" validate:"max=100"`
	Lat     float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng     float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

// CreateMarina handles POST /api/marinas
func (h *MarinaHandler) CreateMarina(w http.ResponseWriter, r *http.Request) {
	var req createMarinaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	marina, created, err := h.marinaService.Create(r.Context(), req.Name, req.City, req.Country, req.Lat, req.Lng)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create marina")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, marina)
}
