package database

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/repositories"
	"github.com/yachtdrop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/yachtdrop/backend/pkg/errors"
)

// ProductSearchAdapter implements ProductSearchRepository on PostgreSQL.
// The three search modes map to to_tsquery, pg_trgm similarity and plain
// ILIKE; only the last one works on a stock database with no extensions.
type ProductSearchAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProductSearchAdapter creates a new product search adapter
func NewProductSearchAdapter(client *postgres.Client) repositories.ProductSearchRepository {
	return &ProductSearchAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var tsqueryTermRe = regexp.MustCompile(`[^a-z0-9]+`)

// buildTsquery turns free text into a prefix-matched tsquery string,
// e.g. "deck shoe" -> "deck:* & shoe:*". Returns "" when nothing survives
// sanitization.
func buildTsquery(query, operator string) string {
	words := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := tsqueryTermRe.ReplaceAllString(word, "")
		if cleaned == "" {
			continue
		}
		terms = append(terms, cleaned+":*")
	}
	return strings.Join(terms, " "+operator+" ")
}

func productColumns() []interface{} {
	return []interface{}{
		"id", "external_id", "sku", "name", "slug", "description", "short_desc",
		"price", "original_price", "discount_percent", "currency", "stock_status",
		"category_id", "brand", "images", "thumbnail", "available",
	}
}

func prefixedProductColumns(alias string) []interface{} {
	cols := productColumns()
	prefixed := make([]interface{}, len(cols))
	for i, col := range cols {
		prefixed[i] = goqu.I(alias + "." + col.(string))
	}
	return prefixed
}

// SearchFullText runs ranked full-text search with every term required.
// Broadening to any-term matching is the caller's call; the search page
// serves the strict result as-is.
func (a *ProductSearchAdapter) SearchFullText(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	tsq := buildTsquery(query, "&")
	if tsq == "" {
		return []*entities.Product{}, nil
	}
	return a.searchVector(ctx, tsq, limit)
}

// SearchFullTextAny matches any term, for recall on queries like
// "red navigation light" where no product carries all three words
func (a *ProductSearchAdapter) SearchFullTextAny(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	tsq := buildTsquery(query, "|")
	if tsq == "" {
		return []*entities.Product{}, nil
	}
	return a.searchVector(ctx, tsq, limit)
}

func (a *ProductSearchAdapter) searchVector(ctx context.Context, tsquery string, limit int) ([]*entities.Product, error) {
	ds := a.db.Select(productColumns()...).
		From("products").
		Where(
			goqu.L("search_vector @@ to_tsquery('english', ?)", tsquery),
			goqu.Ex{"available": true},
			goqu.C("price").Gt(0),
		).
		Order(
			goqu.L("ts_rank(search_vector, to_tsquery('english', ?))", tsquery).Desc(),
			goqu.I("name").Asc(),
		).
		Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build full-text query", err)
	}

	return a.queryProducts(ctx, query, args...)
}

// SearchSimilarity matches misspellings via pg_trgm. The substring
// disjunct catches short queries whose trigram overlap stays below the
// threshold.
func (a *ProductSearchAdapter) SearchSimilarity(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	ds := a.db.Select(productColumns()...).
		From("products").
		Where(
			goqu.Or(
				goqu.L("similarity(name, ?) > 0.08", query),
				goqu.L("LOWER(name) LIKE ?", pattern),
			),
			goqu.Ex{"available": true},
			goqu.C("price").Gt(0),
		).
		Order(
			goqu.L("similarity(name, ?)", query).Desc(),
			goqu.I("name").Asc(),
		).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build similarity query", err)
	}

	return a.queryProducts(ctx, sqlStr, args...)
}

// SearchSubstring is the extension-free last resort
func (a *ProductSearchAdapter) SearchSubstring(ctx context.Context, query string, limit int) ([]*entities.Product, error) {
	pattern := "%" + query + "%"

	ds := a.db.Select(productColumns()...).
		From("products").
		Where(
			goqu.Or(
				goqu.I("name").ILike(pattern),
				goqu.I("sku").ILike(pattern),
			),
			goqu.Ex{"available": true},
			goqu.C("price").Gt(0),
		).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build substring query", err)
	}

	return a.queryProducts(ctx, sqlStr, args...)
}

// ListByCategoryNames returns products in any of the named categories
func (a *ProductSearchAdapter) ListByCategoryNames(ctx context.Context, names []string, limit int) ([]*entities.Product, error) {
	if len(names) == 0 {
		return []*entities.Product{}, nil
	}

	ds := a.db.Select(prefixedProductColumns("p")...).
		From(goqu.T("products").As("p")).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.I("p.category_id").Eq(goqu.I("c.id")))).
		Where(
			goqu.I("c.name").In(names),
			goqu.I("p.available").Eq(true),
			goqu.I("p.price").Gt(0),
		).
		Order(goqu.I("p.name").Asc()).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build category query", err)
	}

	return a.queryProducts(ctx, sqlStr, args...)
}

// ListByNameKeywords matches any keyword against the name, cheapest first.
// Bundle kits are themed keyword sets, so the cheapest matches make the kit.
func (a *ProductSearchAdapter) ListByNameKeywords(ctx context.Context, keywords []string, limit int) ([]*entities.Product, error) {
	if len(keywords) == 0 {
		return []*entities.Product{}, nil
	}

	clauses := make([]goqu.Expression, 0, len(keywords))
	for _, kw := range keywords {
		clauses = append(clauses, goqu.I("name").ILike("%"+kw+"%"))
	}

	ds := a.db.Select(productColumns()...).
		From("products").
		Where(
			goqu.Or(clauses...),
			goqu.Ex{"available": true},
			goqu.C("price").Gt(0),
		).
		Order(goqu.I("price").Asc(), goqu.I("name").Asc()).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build keyword query", err)
	}

	return a.queryProducts(ctx, sqlStr, args...)
}

// ListAvailable returns purchasable products ordered by name
func (a *ProductSearchAdapter) ListAvailable(ctx context.Context, limit int) ([]*entities.Product, error) {
	ds := a.db.Select(productColumns()...).
		From("products").
		Where(
			goqu.Ex{"available": true},
			goqu.C("price").Gt(0),
		).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build availability query", err)
	}

	return a.queryProducts(ctx, sqlStr, args...)
}

// PriceRangeByCategory returns nil when the category has no priced items
func (a *ProductSearchAdapter) PriceRangeByCategory(ctx context.Context, categoryID string) (*repositories.PriceRange, error) {
	ds := a.db.Select(
		goqu.MIN("price").As("min_price"),
		goqu.MAX("price").As("max_price"),
	).
		From("products").
		Where(
			goqu.Ex{"category_id": categoryID, "available": true},
			goqu.C("price").Gt(0),
		)

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build price range query", err)
	}

	var minPrice, maxPrice sql.NullFloat64
	err = a.client.DB().QueryRowContext(ctx, sqlStr, args...).Scan(&minPrice, &maxPrice)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get price range", err)
	}

	if !minPrice.Valid || !maxPrice.Valid {
		return nil, nil
	}

	return &repositories.PriceRange{Min: minPrice.Float64, Max: maxPrice.Float64}, nil
}

// SampleByCategory returns representative products for catalog summaries
func (a *ProductSearchAdapter) SampleByCategory(ctx context.Context, categoryID string, limit int) ([]*entities.Product, error) {
	ds := a.db.Select(productColumns()...).
		From("products").
		Where(
			goqu.Ex{"category_id": categoryID, "available": true},
			goqu.C("price").Gt(0),
		).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build sample query", err)
	}

	return a.queryProducts(ctx, sqlStr, args...)
}

func (a *ProductSearchAdapter) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*entities.Product, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search products", err)
	}
	defer rows.Close()

	products := []*entities.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating products", err)
	}

	return products, nil
}

func scanProduct(rows *sql.Rows) (*entities.Product, error) {
	product := &entities.Product{}
	var originalPrice sql.NullFloat64
	var discountPercent sql.NullInt64
	var brand sql.NullString
	var images []string

	err := rows.Scan(
		&product.ID,
		&product.ExternalID,
		&product.SKU,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.ShortDesc,
		&product.Price,
		&originalPrice,
		&discountPercent,
		&product.Currency,
		&product.StockStatus,
		&product.CategoryID,
		&brand,
		pq.Array(&images),
		&product.Thumbnail,
		&product.Available,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan product", err)
	}

	if originalPrice.Valid {
		product.OriginalPrice = &originalPrice.Float64
	}
	if discountPercent.Valid {
		dp := int(discountPercent.Int64)
		product.DiscountPercent = &dp
	}
	product.Brand = brand.String
	if images == nil {
		images = []string{}
	}
	product.Images = images

	return product, nil
}
