package providers

import (
	"context"

	"github.com/yachtdrop/backend/internal/domain/entities"
)

// MarinaQuery describes an external marina directory lookup. Either a name
// fragment or a coordinate with radius must be set.
type MarinaQuery struct {
	Name     string
	Lat      *float64
	Lng      *float64
	RadiusKm float64
}

// MarinaDirectoryProvider is an external source of marina data, e.g. the
// OpenStreetMap Overpass API
type MarinaDirectoryProvider interface {
	FindMarinas(ctx context.Context, query MarinaQuery) ([]*entities.Marina, error)
}
