package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
	apperrors "github.com/yachtdrop/backend/pkg/errors"
)

func TestBundles_ListResolvesKeywordsAndSumsPrices(t *testing.T) {
	repo := &stubProductRepo{
		byKeywordsFn: func(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error) {
			// Only the docking kit finds stock.
			if keywords[0] != "dock line" {
				return []*entities.Product{}, nil
			}
			assert.Equal(t, 6, limit)
			return []*entities.Product{
				testProduct("p1", "Mooring Line 12mm", 10.10),
				testProduct("p2", "Fender F3", 20.20),
			}, nil
		},
	}
	svc := NewBundleService(repo, &stubCategoryRepo{}, nil)

	bundles := svc.List(context.Background())

	require.Len(t, bundles, 1)
	assert.Equal(t, "docking-package", bundles[0].ID)
	assert.Equal(t, "Docking Package", bundles[0].Name)
	assert.Equal(t, "⚓", bundles[0].Icon)
	require.Len(t, bundles[0].Products, 2)
	assert.Equal(t, 30.30, bundles[0].TotalPrice)
}

func TestBundles_EmptyBundlesAreDropped(t *testing.T) {
	repo := &stubProductRepo{
		byKeywordsFn: func(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error) {
			return []*entities.Product{}, nil
		},
	}
	svc := NewBundleService(repo, &stubCategoryRepo{}, nil)

	assert.Empty(t, svc.List(context.Background()))
}

func TestBundles_KeywordQueryErrorScansPerKeyword(t *testing.T) {
	repo := &stubProductRepo{
		byKeywordsFn: func(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error) {
			return nil, errors.New("db down")
		},
		substringFn: func(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
			// Two keywords hit the same fender; it must appear once.
			switch query {
			case "fender", "bumper":
				return []*entities.Product{testProduct("fender", "Fender F3", 26.50)}, nil
			case "rope":
				return []*entities.Product{testProduct("rope", "Mooring Rope", 12.00)}, nil
			}
			return []*entities.Product{}, nil
		},
	}
	svc := NewBundleService(repo, &stubCategoryRepo{}, nil)

	bundles := svc.List(context.Background())

	var docking *entities.Bundle
	for _, b := range bundles {
		if b.ID == "docking-package" {
			docking = b
		}
	}
	require.NotNil(t, docking)
	require.Len(t, docking.Products, 2)
	assert.Equal(t, "fender", docking.Products[0].ID)
	assert.Equal(t, "rope", docking.Products[1].ID)
}

func TestBundles_GenerateRequiresAI(t *testing.T) {
	svc := NewBundleService(&stubProductRepo{}, &stubCategoryRepo{}, nil)

	draft, err := svc.GenerateDefinitions(context.Background())

	assert.Nil(t, draft)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestBundles_GeneratePromptCarriesCatalog(t *testing.T) {
	categories := &stubCategoryRepo{
		listFn: func(ctx context.Context) ([]*entities.Category, error) {
			return []*entities.Category{{ID: "c1", Name: "Anchoring & Mooring"}}, nil
		},
	}
	repo := &stubProductRepo{
		availableFn: func(ctx context.Context, limit int) ([]*entities.Product, error) {
			assert.Equal(t, 50, limit)
			return []*entities.Product{testProduct("p1", "Galvanized Anchor", 89.90)}, nil
		},
	}
	ai := &stubAI{
		completeFn: func(ctx context.Context, req providers.CompletionRequest) (string, error) {
			assert.Equal(t, 800, req.MaxTokens)
			assert.Equal(t, 0.5, req.Temperature)
			assert.True(t, strings.Contains(req.User, "Anchoring & Mooring"))
			assert.True(t, strings.Contains(req.User, "Galvanized Anchor"))
			return `[{"id":"storm-prep"}]`, nil
		},
	}
	svc := NewBundleService(repo, categories, ai)

	draft, err := svc.GenerateDefinitions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, `[{"id":"storm-prep"}]`, draft.Raw)
	assert.Equal(t, []string{"Anchoring & Mooring"}, draft.Categories)
	assert.Equal(t, 1, draft.SampleCount)
	assert.Equal(t, 1, ai.completeCalls)
}

func TestBundles_GenerateCategoryErrorPropagates(t *testing.T) {
	categories := &stubCategoryRepo{
		listFn: func(ctx context.Context) ([]*entities.Category, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewBundleService(&stubProductRepo{}, categories, &stubAI{})

	draft, err := svc.GenerateDefinitions(context.Background())

	assert.Nil(t, draft)
	assert.Error(t, err)
}
