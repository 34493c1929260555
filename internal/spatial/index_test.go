// internal/spatial/index_test.go
package spatial

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/dispatch"
	"repair-dispatch/internal/models"
)

func technician(name string, lat, lon, rating float64, address string) models.Technician {
	return models.Technician{Name: name, Latitude: lat, Longitude: lon, Rating: rating, Address: address}
}

func newTestIndex(t *testing.T) (*Index, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewIndex(rdb, 50, logger.NewTestLogger(t)), srv
}

func TestIndex_FindNearest(t *testing.T) {
	index, _ := newTestIndex(t)
	ctx := context.Background()

	// Hassen is a couple of km from the query point, Amira is across town.
	require.NoError(t, index.Add(ctx, technician("Hassen", 45.52, -73.58, 4.8, "1234 Rue Sainte-Catherine")))
	require.NoError(t, index.Add(ctx, technician("Amira", 45.60, -73.70, 4.5, "88 Boulevard Saint-Laurent")))

	candidates, err := index.FindNearest(ctx, 45.5017, -73.5673, 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	nearest := candidates[0]
	assert.Equal(t, "Hassen", nearest.Name)
	assert.Equal(t, dispatch.ShapeDerived, nearest.Shape, "index results carry no raw coordinates")
	assert.Equal(t, 4.8, nearest.Rating)
	assert.Equal(t, "1234 Rue Sainte-Catherine", nearest.Address)
	assert.Greater(t, nearest.Distance, 0.0)
	assert.Less(t, nearest.Distance, 5.0, "distance reported in km")
	assert.Zero(t, nearest.Latitude)
	assert.Zero(t, nearest.Longitude)
}

func TestIndex_FindNearest_Ordering(t *testing.T) {
	index, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, technician("Amira", 45.60, -73.70, 4.5, "")))
	require.NoError(t, index.Add(ctx, technician("Hassen", 45.52, -73.58, 4.8, "")))

	candidates, err := index.FindNearest(ctx, 45.5017, -73.5673, 5)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Hassen", candidates[0].Name)
	assert.Equal(t, "Amira", candidates[1].Name)
	assert.Less(t, candidates[0].Distance, candidates[1].Distance)
}

func TestIndex_FindNearest_Empty(t *testing.T) {
	index, _ := newTestIndex(t)

	candidates, err := index.FindNearest(context.Background(), 45.5017, -73.5673, 1)

	// No technician in range is a valid outcome, not an error; the resolver
	// folds it into the fallback branch.
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestIndex_FindNearest_MissingMetadata(t *testing.T) {
	index, srv := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, technician("Hassen", 45.52, -73.58, 4.8, "addr")))
	srv.Del("technician:Hassen")

	candidates, err := index.FindNearest(ctx, 45.5017, -73.5673, 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, "Hassen", candidates[0].Name)
	assert.Zero(t, candidates[0].Rating)
	assert.Empty(t, candidates[0].Address)
}

func TestIndex_FindNearest_ConnectionError(t *testing.T) {
	index, srv := newTestIndex(t)
	srv.Close()

	_, err := index.FindNearest(context.Background(), 45.5017, -73.5673, 1)
	assert.Error(t, err)
}
