package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/repositories"
	"github.com/yachtdrop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/yachtdrop/backend/pkg/errors"
)

// CategoryAdapter implements CategoryRepository
type CategoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCategoryAdapter creates a new category adapter
func NewCategoryAdapter(client *postgres.Client) repositories.CategoryRepository {
	return &CategoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func categoryColumns() []interface{} {
	return []interface{}{
		"id", "slug", "name", "icon", "image_url", "product_count", "display_order",
	}
}

// List returns all categories ordered by display order
func (a *CategoryAdapter) List(ctx context.Context) ([]*entities.Category, error) {
	ds := a.db.Select(categoryColumns()...).
		From("categories").
		Order(goqu.I("display_order").Asc(), goqu.I("name").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build category list query", err)
	}

	return a.queryCategories(ctx, query, args...)
}

func (a *CategoryAdapter) queryCategories(ctx context.Context, query string, args ...interface{}) ([]*entities.Category, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}
	defer rows.Close()

	categories := []*entities.Category{}
	for rows.Next() {
		category := &entities.Category{}
		var icon, imageURL sql.NullString

		err := rows.Scan(
			&category.ID,
			&category.Slug,
			&category.Name,
			&icon,
			&imageURL,
			&category.ProductCount,
			&category.DisplayOrder,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan category", err)
		}

		category.Icon = icon.String
		category.ImageURL = imageURL.String

		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating categories", err)
	}

	return categories, nil
}
