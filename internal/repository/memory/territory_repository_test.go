package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/map-cluster-service/internal/domain"
)

func encode(t *testing.T, ring ...domain.LatLon) string {
	t.Helper()
	wkt, err := domain.EncodePolygon(ring)
	require.NoError(t, err)
	return wkt
}

func TestTerritoryRepository_InsertAndQuery(t *testing.T) {
	repo := NewTerritoryRepository()
	ctx := context.Background()

	downtown, err := repo.Insert(ctx, "Downtown", "#ff0000",
		encode(t, domain.LatLon{Lat: 40, Lon: -75}, domain.LatLon{Lat: 41, Lon: -75}, domain.LatLon{Lat: 41, Lon: -74}))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, downtown.ID)
	assert.Len(t, downtown.Ring, 4)

	_, err = repo.Insert(ctx, "Far", "#00ff00",
		encode(t, domain.LatLon{Lat: 10, Lon: 10}, domain.LatLon{Lat: 11, Lon: 10}, domain.LatLon{Lat: 11, Lon: 11}))
	require.NoError(t, err)

	all, err := repo.Query(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Downtown", all[0].Name)
	assert.Equal(t, "Far", all[1].Name)

	box := &domain.BoundingBox{MinLat: 40.5, MinLon: -75.5, MaxLat: 45, MaxLon: -70}
	filtered, err := repo.Query(ctx, box.FilterPredicate())
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, downtown.ID, filtered[0].ID)

	inside := &domain.BoundingBox{MinLat: 40.9, MinLon: -74.95, MaxLat: 40.95, MaxLon: -74.9}
	filtered, err = repo.Query(ctx, inside.FilterPredicate())
	require.NoError(t, err)
	assert.Len(t, filtered, 1, "box fully inside a territory")

	nowhere := &domain.BoundingBox{MinLat: -50, MinLon: 100, MaxLat: -40, MaxLon: 120}
	filtered, err = repo.Query(ctx, nowhere.FilterPredicate())
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestTerritoryRepository_EnvelopeHitButNoIntersection(t *testing.T) {
	repo := NewTerritoryRepository()
	ctx := context.Background()

	// треугольник: envelope накрывает bbox, сам полигон нет
	_, err := repo.Insert(ctx, "Triangle", "#123456",
		encode(t, domain.LatLon{Lat: 0, Lon: 0}, domain.LatLon{Lat: 10, Lon: 0}, domain.LatLon{Lat: 0, Lon: 10}))
	require.NoError(t, err)

	box := &domain.BoundingBox{MinLat: 8, MinLon: 8, MaxLat: 9, MaxLon: 9}
	filtered, err := repo.Query(ctx, box.FilterPredicate())
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestTerritoryRepository_InsertInvalidGeometry(t *testing.T) {
	_, err := NewTerritoryRepository().Insert(context.Background(), "Bad", "#000", "POINT(1 2)")
	assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
}
