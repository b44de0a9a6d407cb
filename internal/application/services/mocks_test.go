package services

import (
	"context"

	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
	"github.com/yachtdrop/backend/internal/domain/repositories"
)

// Hand-rolled stubs: each method delegates to an optional func field and
// counts calls, so tests only wire up what they exercise.

type stubProductRepo struct {
	fullTextFn       func(ctx context.Context, query string, limit int) ([]*entities.Product, error)
	fullTextAnyFn    func(ctx context.Context, query string, limit int) ([]*entities.Product, error)
	similarityFn     func(ctx context.Context, query string, limit int) ([]*entities.Product, error)
	substringFn      func(ctx context.Context, query string, limit int) ([]*entities.Product, error)
	byCategoryFn     func(ctx context.Context, names []string, limit int) ([]*entities.Product, error)
	byKeywordsFn     func(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error)
	availableFn      func(ctx context.Context, limit int) ([]*entities.Product, error)
	priceRangeFn     func(ctx context.Context, categoryID string) (*repositories.PriceRange, error)
	sampleFn         func(ctx context.Context, categoryID string, limit int) ([]*entities.Product, error)
	fullTextCalls    int
	fullTextAnyCalls int
	priceCalls       int
	sampleCalls      int
}

func (s *stubProductRepo) SearchFullText(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	s.fullTextCalls++
	if s.fullTextFn != nil {
		return s.fullTextFn(ctx, query, limit)
	}
	return []*entities.Product{}, nil
}

func (s *stubProductRepo) SearchFullTextAny(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	s.fullTextAnyCalls++
	if s.fullTextAnyFn != nil {
		return s.fullTextAnyFn(ctx, query, limit)
	}
	return []*entities.Product{}, nil
}

func (s *stubProductRepo) SearchSimilarity(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	if s.similarityFn != nil {
		return s.similarityFn(ctx, query, limit)
	}
	return []*entities.Product{}, nil
}

func (s *stubProductRepo) SearchSubstring(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	if s.substringFn != nil {
		return s.substringFn(ctx, query, limit)
	}
	return []*entities.Product{}, nil
}

func (s *stubProductRepo) ListByCategoryNames(ctx context.Context, names []string, limit int) ([]*entities.Product, error) {
	if s.byCategoryFn != nil {
		return s.byCategoryFn(ctx, names, limit)
	}
	return []*entities.Product{}, nil
}

func (s *stubProductRepo) ListByNameKeywords(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error) {
	if s.byKeywordsFn != nil {
		return s.byKeywordsFn(ctx, keywords, limit)
	}
	return []*entities.Product{}, nil
}

func (s *stubProductRepo) ListAvailable(ctx context.Context, limit int) ([]*entities.Product, error) {
	if s.availableFn != nil {
		return s.availableFn(ctx, limit)
	}
	return []*entities.Product{}, nil
}

func (s *stubProductRepo) PriceRangeByCategory(ctx context.Context, categoryID string) (*repositories.PriceRange, error) {
	s.priceCalls++
	if s.priceRangeFn != nil {
		return s.priceRangeFn(ctx, categoryID)
	}
	return nil, nil
}

func (s *stubProductRepo) SampleByCategory(ctx context.Context, categoryID string, limit int) ([]*entities.Product, error) {
	s.sampleCalls++
	if s.sampleFn != nil {
		return s.sampleFn(ctx, categoryID, limit)
	}
	return []*entities.Product{}, nil
}

type stubCategoryRepo struct {
	listFn    func(ctx context.Context) ([]*entities.Category, error)
	listCalls int
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]*entities.Category, error) {
	s.listCalls++
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return []*entities.Category{}, nil
}

type stubMarinaRepo struct {
	listFn         func(ctx context.Context, limit int) ([]*entities.Marina, error)
	similarityFn   func(ctx context.Context, query string, limit int) ([]*entities.Marina, error)
	substringFn    func(ctx context.Context, query string, limit int) ([]*entities.Marina, error)
	inBoundsFn     func(ctx context.Context, minLat, maxLat, minLng, maxLng float64, limit int) ([]*entities.Marina, error)
	findNearFn     func(ctx context.Context, name string, lat, lng float64) (*entities.Marina, error)
	createFn       func(ctx context.Context, marina *entities.Marina) error
	upsertFn       func(ctx context.Context, marinas []*entities.Marina) (int, error)
	upsertRows     []*entities.Marina
	createdMarinas []*entities.Marina
}

func (s *stubMarinaRepo) List(ctx context.Context, limit int) ([]*entities.Marina, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit)
	}
	return []*entities.Marina{}, nil
}

func (s *stubMarinaRepo) SearchSimilarity(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
	if s.similarityFn != nil {
		return s.similarityFn(ctx, query, limit)
	}
	return []*entities.Marina{}, nil
}

func (s *stubMarinaRepo) SearchSubstring(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
	if s.substringFn != nil {
		return s.substringFn(ctx, query, limit)
	}
	return []*entities.Marina{}, nil
}

func (s *stubMarinaRepo) ListInBounds(ctx context.Context, minLat, maxLat, minLng, maxLng float64, limit int) ([]*entities.Marina, error) {
	if s.inBoundsFn != nil {
		return s.inBoundsFn(ctx, minLat, maxLat, minLng, maxLng, limit)
	}
	return []*entities.Marina{}, nil
}

func (s *stubMarinaRepo) FindByNameNear(ctx context.Context, name string, lat, lng float64) (*entities.Marina, error) {
	if s.findNearFn != nil {
		return s.findNearFn(ctx, name, lat, lng)
	}
	return nil, nil
}

func (s *stubMarinaRepo) Create(ctx context.Context, marina *entities.Marina) error {
	s.createdMarinas = append(s.createdMarinas, marina)
	if s.createFn != nil {
		return s.createFn(ctx, marina)
	}
	return nil
}

func (s *stubMarinaRepo) UpsertBatch(ctx context.Context, marinas []*entities.Marina) (int, error) {
	s.upsertRows = marinas
	if s.upsertFn != nil {
		return s.upsertFn(ctx, marinas)
	}
	return len(marinas), nil
}

type stubAI struct {
	completeFn    func(ctx context.Context, req providers.CompletionRequest) (string, error)
	chatFn        func(ctx context.Context, turns []providers.ChatTurn, maxTokens int, temperature float64) (string, error)
	completeCalls int
	chatCalls     int
	lastChatTurns []providers.ChatTurn
}

func (s *stubAI) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	s.completeCalls++
	if s.completeFn != nil {
		return s.completeFn(ctx, req)
	}
	return "", nil
}

func (s *stubAI) ChatComplete(ctx context.Context, turns []providers.ChatTurn, maxTokens int, temperature float64) (string, error) {
	s.chatCalls++
	s.lastChatTurns = turns
	if s.chatFn != nil {
		return s.chatFn(ctx, turns, maxTokens, temperature)
	}
	return "", nil
}

func testProduct(id, name string, price float64) *entities.Product {
	return &entities.Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Currency:    "EUR",
		StockStatus: entities.StockStatusInStock,
		Available:   true,
	}
}

func testMarina(id, name, city string) *entities.Marina {
	return &entities.Marina{ID: id, Name: name, City: city}
}
