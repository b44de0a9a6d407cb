package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yachtdrop/backend/internal/adapters/providers/overpass"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/pkg/tasks"
)

func osmMarina(osmID, name string) *entities.Marina {
	lat, lng := 43.29, 5.37
	return &entities.Marina{
		ID:    "osm-node-1",
		OSMID: &osmID,
		Name:  name,
		Lat:   &lat,
		Lng:   &lng,
	}
}

func TestMarinaSearch_ShortQueryReturnsNothing(t *testing.T) {
	svc := NewMarinaSearchService(&stubMarinaRepo{}, nil, nil)

	marinas, err := svc.Search(context.Background(), "x")

	require.NoError(t, err)
	assert.Empty(t, marinas)
}

func TestMarinaSearch_SimilarityWithSubstringFallback(t *testing.T) {
	repo := &stubMarinaRepo{
		similarityFn: func(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
			return nil, errors.New("pg_trgm missing")
		},
		substringFn: func(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
			return []*entities.Marina{testMarina("m1", "Port de Marseille", "Marseille")}, nil
		},
	}
	svc := NewMarinaSearchService(repo, nil, nil)

	marinas, err := svc.Search(context.Background(), "marseille")

	require.NoError(t, err)
	require.Len(t, marinas, 1)
}

func TestMarinaLookup_NoFiltersListsFromDB(t *testing.T) {
	repo := &stubMarinaRepo{
		listFn: func(ctx context.Context, limit int) ([]*entities.Marina, error) {
			assert.Equal(t, 30, limit)
			return []*entities.Marina{testMarina("m1", "Marina Bay", "Gibraltar")}, nil
		},
	}
	svc := NewMarinaSearchService(repo, nil, nil)

	marinas, source, err := svc.Lookup(context.Background(), MarinaLookup{})

	require.NoError(t, err)
	assert.Equal(t, MarinaSourceDB, source)
	assert.Len(t, marinas, 1)
}

func TestMarinaLookup_EnoughNameHitsServedFromDB(t *testing.T) {
	directory := &overpass.MockProvider{}
	repo := &stubMarinaRepo{
		substringFn: func(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
			return []*entities.Marina{
				testMarina("m1", "Port Ginesta", "Barcelona"),
				testMarina("m2", "Port Olimpic", "Barcelona"),
				testMarina("m3", "Port Vell", "Barcelona"),
			}, nil
		},
	}
	svc := NewMarinaSearchService(repo, directory, nil)

	marinas, source, err := svc.Lookup(context.Background(), MarinaLookup{Query: "port"})

	require.NoError(t, err)
	assert.Equal(t, MarinaSourceDBCache, source)
	assert.Len(t, marinas, 3)
	assert.Empty(t, directory.Calls)
}

func TestMarinaLookup_FewDBHitsGoesToOverpass(t *testing.T) {
	directory := &overpass.MockProvider{
		Marinas: []*entities.Marina{osmMarina("node/1", "Marina Smir")},
	}
	repo := &stubMarinaRepo{
		substringFn: func(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
			return []*entities.Marina{testMarina("m1", "Marina Smir", "")}, nil
		},
	}
	svc := NewMarinaSearchService(repo, directory, nil)

	marinas, source, err := svc.Lookup(context.Background(), MarinaLookup{Query: "smir"})

	require.NoError(t, err)
	assert.Equal(t, MarinaSourceOSM, source)
	require.Len(t, marinas, 1)
	assert.Len(t, directory.Calls, 1)
}

func TestMarinaLookup_GeoSearchUsesBoundingBox(t *testing.T) {
	lat, lng := 43.0, 5.0
	var gotMinLat, gotMaxLat float64
	repo := &stubMarinaRepo{
		inBoundsFn: func(ctx context.Context, minLat, maxLat, minLng, maxLng float64, limit int) ([]*entities.Marina, error) {
			gotMinLat, gotMaxLat = minLat, maxLat
			return []*entities.Marina{
				testMarina("m1", "A", ""), testMarina("m2", "B", ""),
				testMarina("m3", "C", ""), testMarina("m4", "D", ""),
				testMarina("m5", "E", ""),
			}, nil
		},
	}
	svc := NewMarinaSearchService(repo, &overpass.MockProvider{}, nil)

	marinas, source, err := svc.Lookup(context.Background(), MarinaLookup{Lat: &lat, Lng: &lng, RadiusKm: 55.5})

	require.NoError(t, err)
	assert.Equal(t, MarinaSourceDBCache, source)
	assert.Len(t, marinas, 5)
	assert.InDelta(t, 42.5, gotMinLat, 0.001)
	assert.InDelta(t, 43.5, gotMaxLat, 0.001)
}

func TestMarinaLookup_OverpassFailureFallsBackToDB(t *testing.T) {
	directory := &overpass.MockProvider{Err: errors.New("504 gateway timeout")}
	repo := &stubMarinaRepo{
		substringFn: func(ctx context.Context, query string, limit int) ([]*entities.Marina, error) {
			return []*entities.Marina{testMarina("m1", "Port Grimaud", "")}, nil
		},
	}
	svc := NewMarinaSearchService(repo, directory, nil)

	marinas, source, err := svc.Lookup(context.Background(), MarinaLookup{Query: "grimaud"})

	require.NoError(t, err)
	assert.Equal(t, MarinaSourceDBFallback, source)
	assert.Len(t, marinas, 1)
}

func TestMarinaLookup_PersistsOverpassResultsInBackground(t *testing.T) {
	directory := &overpass.MockProvider{
		Marinas: []*entities.Marina{
			osmMarina("node/1", "Marina Smir"),
			testMarina("local", "No OSM ID", ""),
		},
	}
	repo := &stubMarinaRepo{}
	queue := tasks.NewQueue(1, 4, time.Second)
	svc := NewMarinaSearchService(repo, directory, queue)

	_, source, err := svc.Lookup(context.Background(), MarinaLookup{Query: "smir"})
	require.NoError(t, err)
	assert.Equal(t, MarinaSourceOSM, source)

	queue.Close()

	require.Len(t, repo.upsertRows, 1)
	assert.Equal(t, "Marina Smir", repo.upsertRows[0].Name)
	// Stored rows get fresh UUIDs, not the osm-prefixed response id.
	assert.NotEqual(t, "osm-node-1", repo.upsertRows[0].ID)
}

func TestMarinaCreate_ReusesNearbyDuplicate(t *testing.T) {
	existing := testMarina("m1", "Port Vell", "Barcelona")
	repo := &stubMarinaRepo{
		findNearFn: func(ctx context.Context, name string, lat, lng float64) (*entities.Marina, error) {
			return existing, nil
		},
	}
	svc := NewMarinaSearchService(repo, nil, nil)

	marina, created, err := svc.Create(context.Background(), "Port Vell", "Barcelona", "Spain", 41.37, 2.18)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "m1", marina.ID)
	assert.Empty(t, repo.createdMarinas)
}

func TestMarinaCreate_InsertsNewMarina(t *testing.T) {
	repo := &stubMarinaRepo{}
	svc := NewMarinaSearchService(repo, nil, nil)

	marina, created, err := svc.Create(context.Background(), "  Port Vell ", "Barcelona", "Spain", 41.37, 2.18)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Port Vell", marina.Name)
	assert.NotEmpty(t, marina.ID)
	require.Len(t, repo.createdMarinas, 1)
}
