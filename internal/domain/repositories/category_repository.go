package repositories

import (
	"context"

	"github.com/yachtdrop/backend/internal/domain/entities"
)

// CategoryRepository provides access to product categories
type CategoryRepository interface {
	// List returns all categories ordered by display order
	List(ctx context.Context) ([]*entities.Category, error)
}
