package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
	"github.com/yachtdrop/backend/internal/domain/repositories"
	"github.com/yachtdrop/backend/pkg/tasks"
)

// MarinaSource labels where a marina lookup was served from
type MarinaSource string

const (
	MarinaSourceDB         MarinaSource = "db"
	MarinaSourceDBCache    MarinaSource = "db-cache"
	MarinaSourceOSM        MarinaSource = "osm"
	MarinaSourceDBFallback MarinaSource = "db-fallback"
)

// MarinaLookup is a directory request: a name fragment, a coordinate with
// radius, or neither (plain listing)
type MarinaLookup struct {
	Query    string
	Lat      *float64
	Lng      *float64
	RadiusKm float64
}

// MarinaSearchService serves the marina directory DB-first. Overpass is only
// queried when the local table can't answer well enough, and everything it
// returns is persisted in the background so the next lookup stays local.
type MarinaSearchService struct {
	marinas   repositories.MarinaRepository
	directory providers.MarinaDirectoryProvider
	queue     *tasks.Queue
}

// NewMarinaSearchService creates a marina search service. directory and
// queue may be nil; lookups then never leave the database.
func NewMarinaSearchService(marinas repositories.MarinaRepository, directory providers.MarinaDirectoryProvider, queue *tasks.Queue) *MarinaSearchService {
	return &MarinaSearchService{marinas: marinas, directory: directory, queue: queue}
}

// Search is the combined-search path: similarity tier with substring
// fallback, capped at 10 rows. Queries under two characters return nothing.
func (s *MarinaSearchService) Search(ctx context.Context, query string) ([]*entities.Marina, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return []*entities.Marina{}, nil
	}

	marinas, err := s.marinas.SearchSimilarity(ctx, query, 10)
	if err != nil {
		return s.marinas.SearchSubstring(ctx, query, 10)
	}
	return marinas, nil
}

// Lookup serves the marina directory endpoint. DB results win when there are
// enough of them (3 for name searches, 5 for geo searches); otherwise
// Overpass is queried and its results persisted in the background. Overpass
// failure degrades to whatever the database has.
func (s *MarinaSearchService) Lookup(ctx context.Context, lookup MarinaLookup) ([]*entities.Marina, MarinaSource, error) {
	query := strings.TrimSpace(lookup.Query)
	radius := lookup.RadiusKm
	if radius <= 0 {
		radius = 30
	}
	if radius < 5 {
		radius = 5
	}
	if radius > 100 {
		radius = 100
	}

	hasQuery := utf8.RuneCountInString(query) >= 2
	hasCoords := lookup.Lat != nil && lookup.Lng != nil

	if !hasQuery && !hasCoords {
		marinas, err := s.marinas.List(ctx, 30)
		return marinas, MarinaSourceDB, err
	}

	if hasQuery {
		marinas, err := s.marinas.SearchSubstring(ctx, query, 30)
		if err == nil && len(marinas) >= 3 {
			return marinas, MarinaSourceDBCache, nil
		}
	}

	if hasCoords {
		deg := radius / 111 // ~111km per degree
		marinas, err := s.marinas.ListInBounds(ctx,
			*lookup.Lat-deg, *lookup.Lat+deg, *lookup.Lng-deg, *lookup.Lng+deg, 50)
		if err == nil && len(marinas) >= 5 {
			return marinas, MarinaSourceDBCache, nil
		}
	}

	if s.directory == nil {
		return s.dbFallback(ctx, query, hasQuery)
	}

	found, err := s.directory.FindMarinas(ctx, providers.MarinaQuery{
		Name:     query,
		Lat:      lookup.Lat,
		Lng:      lookup.Lng,
		RadiusKm: radius,
	})
	if err != nil {
		log.Error().Err(err).Msg("Overpass lookup failed, falling back to saved marinas")
		return s.dbFallback(ctx, query, hasQuery)
	}

	s.persistInBackground(found)
	return found, MarinaSourceOSM, nil
}

func (s *MarinaSearchService) dbFallback(ctx context.Context, query string, hasQuery bool) ([]*entities.Marina, MarinaSource, error) {
	if hasQuery {
		marinas, err := s.marinas.SearchSubstring(ctx, query, 30)
		return marinas, MarinaSourceDBFallback, err
	}
	marinas, err := s.marinas.List(ctx, 30)
	return marinas, MarinaSourceDBFallback, err
}

// persistInBackground upserts OSM results fire-and-forget. Rows get fresh
// UUIDs for storage; the osm-prefixed ids only live in API responses.
func (s *MarinaSearchService) persistInBackground(marinas []*entities.Marina) {
	if s.queue == nil {
		return
	}

	rows := make([]*entities.Marina, 0, len(marinas))
	for _, m := range marinas {
		if m.OSMID == nil {
			continue
		}
		row := *m
		row.ID = uuid.NewString()
		rows = append(rows, &row)
	}
	if len(rows) == 0 {
		return
	}

	s.queue.Enqueue(tasks.Task{
		Name: "persist-marinas",
		Run: func(ctx context.Context) error {
			inserted, err := s.marinas.UpsertBatch(ctx, rows)
			if err != nil {
				return err
			}
			log.Debug().Int("inserted", inserted).Int("fetched", len(rows)).Msg("Persisted marinas from Overpass")
			return nil
		},
	})
}

// Create adds a marina manually, reusing an existing row with the same name
// within ~100m instead of duplicating it. The bool reports whether a new row
// was created.
func (s *MarinaSearchService) Create(ctx context.Context, name, city, country string, lat, lng float64) (*entities.Marina, bool, error) {
	existing, err := s.marinas.FindByNameNear(ctx, name, lat, lng)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	marina := &entities.Marina{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(name),
		City:    city,
		Country: country,
		Lat:     &lat,
		Lng:     &lng,
	}
	if err := s.marinas.Create(ctx, marina); err != nil {
		return nil, false, err
	}
	return marina, true, nil
}
