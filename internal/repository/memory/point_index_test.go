package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/map-cluster-service/internal/domain"
)

func pointsAt(coords ...domain.LatLon) []*domain.Point {
	points := make([]*domain.Point, len(coords))
	for i, c := range coords {
		points[i] = &domain.Point{ID: int64(i + 1), Latitude: c.Lat, Longitude: c.Lon}
	}
	return points
}

func TestPointIndex_AggregateClusters(t *testing.T) {
	idx := NewPointIndex()
	idx.Load(pointsAt(
		domain.LatLon{Lat: 40.0, Lon: -75.0},
		domain.LatLon{Lat: 40.2, Lon: -75.2},
		domain.LatLon{Lat: 40.4, Lon: -74.9},
		domain.LatLon{Lat: 34.0, Lon: -118.0},
	))

	rows, err := idx.AggregateClusters(context.Background(), 5, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(3), rows[0].Count)
	assert.InDelta(t, 40.2, rows[0].Latitude, 1e-9)
	assert.InDelta(t, -75.033333333, rows[0].Longitude, 1e-6)
	assert.Equal(t, domain.ClusterRow{Count: 1, Latitude: 34, Longitude: -118}, rows[1])
}

func TestPointIndex_AggregateClusters_HigherZoomSplits(t *testing.T) {
	idx := NewPointIndex()
	idx.Load(pointsAt(
		domain.LatLon{Lat: 40.0, Lon: -75.0},
		domain.LatLon{Lat: 40.4, Lon: -74.9},
	))

	low, err := idx.AggregateClusters(context.Background(), 3, nil)
	require.NoError(t, err)
	assert.Len(t, low, 1)

	high, err := idx.AggregateClusters(context.Background(), 12, nil)
	require.NoError(t, err)
	assert.Len(t, high, 2)
	assert.Equal(t, 40.0, high[0].Latitude, "ties ordered by latitude")
}

func TestPointIndex_AggregateClusters_Bounded(t *testing.T) {
	idx := NewPointIndex()
	idx.Load(pointsAt(
		domain.LatLon{Lat: 40.0, Lon: -75.0},
		domain.LatLon{Lat: 34.0, Lon: -118.0},
		domain.LatLon{Lat: 51.5, Lon: -0.1},
		domain.LatLon{Lat: 24.5, Lon: -124.8},
	))
	box := &domain.BoundingBox{MinLat: 24.5, MinLon: -124.8, MaxLat: 49.5, MaxLon: -66.9}

	rows, err := idx.AggregateClusters(context.Background(), 10, box)
	require.NoError(t, err)

	var total int64
	for _, r := range rows {
		require.NoError(t, r.Validate(box))
		total += r.Count
	}
	assert.Equal(t, int64(3), total, "corner point is inside, London is not")
}

func TestPointIndex_AggregateClusters_CentroidOnBoxEdge(t *testing.T) {
	idx := NewPointIndex()
	idx.Load(pointsAt(
		domain.LatLon{Lat: 0.1, Lon: 10},
		domain.LatLon{Lat: 0.1, Lon: 10},
		domain.LatLon{Lat: 0.1, Lon: 10},
	))
	box := &domain.BoundingBox{MinLat: -1, MinLon: 0, MaxLat: 0.1, MaxLon: 20}

	rows, err := idx.AggregateClusters(context.Background(), 0, box)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(3), rows[0].Count)
	assert.LessOrEqual(t, rows[0].Latitude, box.MaxLat)
	assert.NoError(t, rows[0].Validate(box))
}

func TestPointIndex_AggregateClusters_Empty(t *testing.T) {
	rows, err := NewPointIndex().AggregateClusters(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPointIndex_AggregateClusters_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPointIndex().AggregateClusters(ctx, 5, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPointIndex_GetInBBox(t *testing.T) {
	idx := NewPointIndex()
	var coords []domain.LatLon
	for i := 0; i < 200; i++ {
		coords = append(coords, domain.LatLon{Lat: float64(i%20) - 10, Lon: float64(i/20) - 5})
	}
	idx.Load(pointsAt(coords...))
	require.Equal(t, 200, idx.Size())

	box := domain.BoundingBox{MinLat: 0, MinLon: 0, MaxLat: 2, MaxLon: 1}
	points, err := idx.GetInBBox(context.Background(), box, 0)
	require.NoError(t, err)
	assert.Len(t, points, 6)
	for i, p := range points {
		assert.True(t, box.Contains(p.Location()))
		if i > 0 {
			assert.Less(t, points[i-1].ID, p.ID)
		}
	}

	limited, err := idx.GetInBBox(context.Background(), box, 4)
	require.NoError(t, err)
	assert.Equal(t, points[:4], limited)
}

func TestPointIndex_InsertAndAll(t *testing.T) {
	idx := NewPointIndex()
	idx.Load(pointsAt(domain.LatLon{Lat: 1, Lon: 1}, domain.LatLon{Lat: 2, Lon: 2}))
	idx.Insert(&domain.Point{ID: 10, Latitude: 3, Longitude: 3})

	all, err := idx.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(10), all[2].ID)
}

func TestPointIndex_ConcurrentReads(t *testing.T) {
	idx := NewPointIndex()
	var coords []domain.LatLon
	for i := 0; i < 500; i++ {
		coords = append(coords, domain.LatLon{Lat: float64(i%90) - 45, Lon: float64(i%180) - 90})
	}
	idx.Load(pointsAt(coords...))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(zoom int) {
			defer wg.Done()
			rows, err := idx.AggregateClusters(context.Background(), zoom, nil)
			assert.NoError(t, err)

			var total int64
			for _, r := range rows {
				total += r.Count
			}
			assert.Equal(t, int64(500), total, fmt.Sprintf("zoom %d", zoom))
		}(i)
	}
	wg.Wait()
}
