package repositories

import (
	"context"

	"github.com/yachtdrop/backend/internal/domain/entities"
)

// MarinaRepository provides access to the marina directory
type MarinaRepository interface {
	// List returns marinas ordered by name
	List(ctx context.Context, limit int) ([]*entities.Marina, error)

	// SearchSimilarity runs trigram similarity matching on marina names
	SearchSimilarity(ctx context.Context, query string, limit int) ([]*entities.Marina, error)

	// SearchSubstring runs case-insensitive substring matching on name,
	// city and country
	SearchSubstring(ctx context.Context, query string, limit int) ([]*entities.Marina, error)

	// ListInBounds returns marinas inside a lat/lng bounding box
	ListInBounds(ctx context.Context, minLat, maxLat, minLng, maxLng float64, limit int) ([]*entities.Marina, error)

	// FindByNameNear returns a marina with the same name within ~100m of
	// the given coordinates, or nil when none exists
	FindByNameNear(ctx context.Context, name string, lat, lng float64) (*entities.Marina, error)

	// Create inserts a single marina
	Create(ctx context.Context, marina *entities.Marina) error

	// UpsertBatch bulk-inserts marinas, skipping rows whose OSM id already
	// exists
	UpsertBatch(ctx context.Context, marinas []*entities.Marina) (int, error)
}
