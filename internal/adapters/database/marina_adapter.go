package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/repositories"
	"github.com/yachtdrop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/yachtdrop/backend/pkg/errors"
)

// MarinaAdapter implements MarinaRepository
type MarinaAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMarinaAdapter creates a new marina adapter
func NewMarinaAdapter(client *postgres.Client) repositories.MarinaRepository {
	return &MarinaAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func marinaColumns() []interface{} {
	return []interface{}{"id", "osm_id", "name", "city", "country", "lat", "lng"}
}

// List returns marinas ordered by name
func (a *MarinaAdapter) List(ctx context.Context, limit int) ([]*entities.Marina, error) {
	ds := a.db.Select(marinaColumns()...).
		From("marinas").
		Order(goqu.I("name").Asc()).
		Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build marina list query", err)
	}

	return a.queryMarinas(ctx, query, args...)
}

// SearchSimilarity runs trigram similarity matching on marina names. The
// threshold is looser than the product one because marina names are long
// and multi-word ("Port de Saint-Tropez").
func (a *MarinaAdapter) SearchSimilarity(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	ds := a.db.Select(marinaColumns()...).
		From("marinas").
		Where(goqu.Or(
			goqu.L("similarity(name, ?) > 0.1", query),
			goqu.L("LOWER(name) LIKE ?", pattern),
		)).
		Order(
			goqu.L("similarity(name, ?)", query).Desc(),
			goqu.I("name").Asc(),
		).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build marina similarity query", err)
	}

	return a.queryMarinas(ctx, sqlStr, args...)
}

// SearchSubstring runs case-insensitive substring matching on name, city
// and country
func (a *MarinaAdapter) SearchSubstring(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
	pattern := "%" + query + "%"

	ds := a.db.Select(marinaColumns()...).
		From("marinas").
		Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("city").ILike(pattern),
			goqu.I("country").ILike(pattern),
		)).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build marina substring query", err)
	}

	return a.queryMarinas(ctx, sqlStr, args...)
}

// ListInBounds returns marinas inside a lat/lng bounding box
func (a *MarinaAdapter) ListInBounds(ctx context.Context, minLat, maxLat, minLng, maxLng float64, limit int) ([]*entities.Marina, error) {
	ds := a.db.Select(marinaColumns()...).
		From("marinas").
		Where(
			goqu.C("lat").Between(goqu.Range(minLat, maxLat)),
			goqu.C("lng").Between(goqu.Range(minLng, maxLng)),
		).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build marina bounds query", err)
	}

	return a.queryMarinas(ctx, sqlStr, args...)
}

// FindByNameNear returns a same-named marina within ~0.001 degrees of the
// coordinates, or nil when none exists
func (a *MarinaAdapter) FindByNameNear(ctx context.Context, name string, lat, lng float64) (*entities.Marina, error) {
	ds := a.db.Select(marinaColumns()...).
		From("marinas").
		Where(
			goqu.L("LOWER(name) = LOWER(?)", name),
			goqu.L("ABS(lat - ?) < 0.001", lat),
			goqu.L("ABS(lng - ?) < 0.001", lng),
		).
		Limit(1)

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build marina dedup query", err)
	}

	marinas, err := a.queryMarinas(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	if len(marinas) == 0 {
		return nil, nil
	}
	return marinas[0], nil
}

// Create inserts a single marina
func (a *MarinaAdapter) Create(ctx context.Context, marina *entities.Marina) error {
	record := goqu.Record{
		"id":      marina.ID,
		"name":    marina.Name,
		"city":    sql.NullString{String: marina.City, Valid: marina.City != ""},
		"country": sql.NullString{String: marina.Country, Valid: marina.Country != ""},
		"lat":     marina.Lat,
		"lng":     marina.Lng,
	}
	if marina.OSMID != nil {
		record["osm_id"] = *marina.OSMID
	}

	query, args, err := a.db.Insert("marinas").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build marina insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create marina", err)
	}

	return nil
}

const marinaUpsertQuery = `
INSERT INTO marinas (id, osm_id, name, city, country, lat, lng)
SELECT * FROM UNNEST(
	$1::text[], $2::text[], $3::text[], $4::text[], $5::text[],
	$6::decimal[], $7::decimal[]
)
ON CONFLICT (osm_id) DO NOTHING`

// UpsertBatch bulk-inserts marinas with a single UNNEST statement, skipping
// rows whose OSM id is already present
func (a *MarinaAdapter) UpsertBatch(ctx context.Context, marinas []*entities.Marina) (int, error) {
	if len(marinas) == 0 {
		return 0, nil
	}

	ids := make([]string, len(marinas))
	osmIDs := make([]sql.NullString, len(marinas))
	names := make([]string, len(marinas))
	cities := make([]sql.NullString, len(marinas))
	countries := make([]sql.NullString, len(marinas))
	lats := make([]sql.NullFloat64, len(marinas))
	lngs := make([]sql.NullFloat64, len(marinas))

	for i, m := range marinas {
		ids[i] = m.ID
		names[i] = m.Name
		if m.OSMID != nil {
			osmIDs[i] = sql.NullString{String: *m.OSMID, Valid: true}
		}
		cities[i] = sql.NullString{String: m.City, Valid: m.City != ""}
		countries[i] = sql.NullString{String: m.Country, Valid: m.Country != ""}
		if m.Lat != nil {
			lats[i] = sql.NullFloat64{Float64: *m.Lat, Valid: true}
		}
		if m.Lng != nil {
			lngs[i] = sql.NullFloat64{Float64: *m.Lng, Valid: true}
		}
	}

	result, err := a.client.DB().ExecContext(ctx, marinaUpsertQuery,
		pq.Array(ids), pq.Array(osmIDs), pq.Array(names),
		pq.Array(cities), pq.Array(countries), pq.Array(lats), pq.Array(lngs),
	)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to upsert marinas", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func (a *MarinaAdapter) queryMarinas(ctx context.Context, query string, args ...interface{}) ([]*entities.Marina, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query marinas", err)
	}
	defer rows.Close()

	marinas := []*entities.Marina{}
	for rows.Next() {
		marina := &entities.Marina{}
		var osmID sql.NullString
		var city, country sql.NullString
		var lat, lng sql.NullFloat64

		err := rows.Scan(
			&marina.ID,
			&osmID,
			&marina.Name,
			&city,
			&country,
			&lat,
			&lng,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan marina", err)
		}

		if osmID.Valid {
			marina.OSMID = &osmID.String
		}
		marina.City = city.String
		marina.Country = country.String
		if lat.Valid {
			marina.Lat = &lat.Float64
		}
		if lng.Valid {
			marina.Lng = &lng.Float64
		}

		marinas = append(marinas, marina)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating marinas", err)
	}

	return marinas, nil
}
