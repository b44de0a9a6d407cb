package overpass

import (
	"context"

	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
)

// MockProvider is an in-memory marina directory for tests and local
// development without network access
type MockProvider struct {
	Marinas []*entities.Marina
	Err     error
	Calls   []providers.MarinaQuery
}

// NewMockProvider creates a mock directory returning the given marinas
func NewMockProvider(marinas []*entities.Marina) *MockProvider {
	return &MockProvider{Marinas: marinas}
}

// FindMarinas records the query and returns the configured result
func (m *MockProvider) FindMarinas(ctx context.Context, query providers.MarinaQuery) ([]*entities.Marina, error) {
	m.Calls = append(m.Calls, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Marinas, nil
}
