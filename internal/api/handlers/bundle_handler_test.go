package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yachtdrop/backend/internal/api/handlers"
	"github.com/yachtdrop/backend/internal/application/services"
	"github.com/yachtdrop/backend/internal/domain/entities"
)

func TestBundleHandler_ListBundles(t *testing.T) {
	repo := new(MockProductSearchRepo)
	repo.On("ListByNameKeywords", mock.Anything, mock.Anything, 6).
		Return([]*entities.Product{
			{ID: "p1", Name: "Fender F3", Price: 26.50},
			{ID: "p2", Name: "Mooring Line", Price: 24.90},
		}, nil)

	service := services.NewBundleService(repo, new(MockCategoryRepo), nil)
	handler := handlers.NewBundleHandler(service, true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bundles", nil)
	handler.ListBundles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=600", rec.Header().Get("Cache-Control"))

	var resp struct {
		Data []*entities.Bundle `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "weekend-cruise", resp.Data[0].ID)
	require.Len(t, resp.Data[0].Products, 2)
	assert.Equal(t, 51.40, resp.Data[0].TotalPrice)
}

func TestBundleHandler_GenerateForbiddenOutsideDevelopment(t *testing.T) {
	service := services.NewBundleService(new(MockProductSearchRepo), new(MockCategoryRepo), nil)
	handler := handlers.NewBundleHandler(service, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bundles/generate", nil)
	handler.GenerateBundleDefinitions(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBundleHandler_GenerateWithoutAIReturns503(t *testing.T) {
	service := services.NewBundleService(new(MockProductSearchRepo), new(MockCategoryRepo), nil)
	handler := handlers.NewBundleHandler(service, true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bundles/generate", nil)
	handler.GenerateBundleDefinitions(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"bundle generation requires the AI provider"}`, rec.Body.String())
}
