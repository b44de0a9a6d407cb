package handlers_test

import (
	"context"
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
	"github.com/yachtdrop/backend/internal/domain/repositories"
)

type MockProductSearchRepo struct {
	mock.Mock
}

func (m *MockProductSearchRepo) SearchFullText(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductSearchRepo) SearchFullTextAny(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductSearchRepo) SearchSimilarity(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductSearchRepo) SearchSubstring(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductSearchRepo) ListByCategoryNames(ctx context.Context, names []string, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, names, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductSearchRepo) ListByNameKeywords(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, keywords, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductSearchRepo) ListAvailable(ctx context.Context, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductSearchRepo) PriceRangeByCategory(ctx context.Context, categoryID string) (*repositories.PriceRange, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.PriceRange), args.Error(1)
}

func (m *MockProductSearchRepo) SampleByCategory(ctx context.Context, categoryID string, limit int) ([]*entities.Product, error) {
	args := m.Called(ctx, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

type searchResponse struct {
	Data   []*entities.Product `json:"data"`
	Engine string              `json:"engine"`
	Count  int                 `json:"count"`
}

func TestSearchHandler_Search_ReturnsContract(t *testing.T) {
	repo := new(MockProductSearchRepo)
	repo.On("SearchFullText", mock.Anything, "anchor", 20).
		Return([]*entities.Product{{ID: "p1", Name: "Galvanized Anchor", Price: 45}}, nil)

	handler := handlers.NewSearchHandler(services.NewSearchService(repo, nil), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=anchor", nil)
	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fts", resp.Engine)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Galvanized Anchor", resp.Data[0].Name)
	repo.AssertExpectations(t)
}

func TestSearchHandler_Search_ClampsLimit(t *testing.T) {
	repo := new(MockProductSearchRepo)
	repo.On("SearchFullText", mock.Anything, "anchor", 30).
		Return([]*entities.Product{}, nil)
	repo.On("SearchSimilarity", mock.Anything, "anchor", 30).
		Return([]*entities.Product{}, nil)

	handler := handlers.NewSearchHandler(services.NewSearchService(repo, nil), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=anchor&limit=500", nil)
	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestSearchHandler_Search_InternalError(t *testing.T) {
	repo := new(MockProductSearchRepo)
	repo.On("SearchFullText", mock.Anything, "anchor", 20).
		Return(nil, assert.AnError)
	repo.On("SearchSubstring", mock.Anything, "anchor", 20).
		Return(nil, assert.AnError)

	handler := handlers.NewSearchHandler(services.NewSearchService(repo, nil), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=anchor", nil)
	handler.Search(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"search failed"}`, rec.Body.String())
}

func TestSearchHandler_Search_EmptyQueryReturnsEmptyData(t *testing.T) {
	repo := new(MockProductSearchRepo)
	handler := handlers.NewSearchHandler(services.NewSearchService(repo, nil), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
	assert.Equal(t, "fts", resp.Engine)
}
