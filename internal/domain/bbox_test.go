package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 {
	return &v
}

func TestParseBoundingBox(t *testing.T) {
	tests := []struct {
		name                           string
		minLat, minLon, maxLat, maxLon *float64
		bounded                        bool
	}{
		{name: "valid box", minLat: f64(24.5), minLon: f64(-124.8), maxLat: f64(49.5), maxLon: f64(-66.9), bounded: true},
		{name: "degenerate box", minLat: f64(10), minLon: f64(10), maxLat: f64(10), maxLon: f64(10), bounded: true},
		{name: "world extent", minLat: f64(-90), minLon: f64(-180), maxLat: f64(90), maxLon: f64(180), bounded: true},
		{name: "missing field", minLat: f64(24.5), minLon: nil, maxLat: f64(49.5), maxLon: f64(-66.9)},
		{name: "all missing"},
		{name: "NaN", minLat: f64(math.NaN()), minLon: f64(-124.8), maxLat: f64(49.5), maxLon: f64(-66.9)},
		{name: "infinite", minLat: f64(24.5), minLon: f64(math.Inf(-1)), maxLat: f64(49.5), maxLon: f64(-66.9)},
		{name: "inverted latitude", minLat: f64(49.5), minLon: f64(-124.8), maxLat: f64(24.5), maxLon: f64(-66.9)},
		{name: "inverted longitude", minLat: f64(24.5), minLon: f64(-66.9), maxLat: f64(49.5), maxLon: f64(-124.8)},
		{name: "latitude out of range", minLat: f64(-91), minLon: f64(0), maxLat: f64(10), maxLon: f64(10)},
		{name: "longitude out of range", minLat: f64(0), minLon: f64(0), maxLat: f64(10), maxLon: f64(181)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := ParseBoundingBox(tt.minLat, tt.minLon, tt.maxLat, tt.maxLon)
			if !tt.bounded {
				assert.Nil(t, box)
				return
			}
			require.NotNil(t, box)
			assert.Equal(t, *tt.minLat, box.MinLat)
			assert.Equal(t, *tt.maxLon, box.MaxLon)
		})
	}
}

func TestParseBoundingBoxStrict(t *testing.T) {
	_, err := ParseBoundingBoxStrict(f64(1), nil, f64(2), f64(3))
	assert.ErrorIs(t, err, ErrInvalidBoundingBox)
	assert.Contains(t, err.Error(), "min_lon")

	_, err = ParseBoundingBoxStrict(f64(5), f64(1), f64(2), f64(3))
	assert.ErrorIs(t, err, ErrInvalidBoundingBox)
	assert.Contains(t, err.Error(), "min_lat is greater")

	box, err := ParseBoundingBoxStrict(f64(1), f64(2), f64(3), f64(4))
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{MinLat: 1, MinLon: 2, MaxLat: 3, MaxLon: 4}, *box)
}

func TestBoundingBox_Contains(t *testing.T) {
	box := ParseBoundingBox(f64(24.5), f64(-124.8), f64(49.5), f64(-66.9))
	require.NotNil(t, box)

	assert.True(t, box.Contains(LatLon{Lat: 40, Lon: -90}))
	assert.False(t, box.Contains(LatLon{Lat: 10, Lon: -90}))
	assert.True(t, box.Contains(LatLon{Lat: 24.5, Lon: -124.8}), "boundary is inclusive")
	assert.False(t, box.Contains(LatLon{Lat: 40, Lon: -60}))

	var unbounded *BoundingBox
	assert.True(t, unbounded.Contains(LatLon{Lat: -89, Lon: 179}))
}

func TestBoundingBox_Intersects(t *testing.T) {
	a := &BoundingBox{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}

	assert.True(t, a.Intersects(&BoundingBox{MinLat: 5, MinLon: 5, MaxLat: 15, MaxLon: 15}))
	assert.True(t, a.Intersects(&BoundingBox{MinLat: 10, MinLon: 10, MaxLat: 15, MaxLon: 15}), "touching corners")
	assert.True(t, a.Intersects(&BoundingBox{MinLat: 2, MinLon: 2, MaxLat: 3, MaxLon: 3}))
	assert.False(t, a.Intersects(&BoundingBox{MinLat: 11, MinLon: 0, MaxLat: 15, MaxLon: 10}))
	assert.True(t, a.Intersects(nil))
}

func TestBoundingBox_FilterPredicate(t *testing.T) {
	var unbounded *BoundingBox
	assert.Nil(t, unbounded.FilterPredicate())

	box := &BoundingBox{MinLat: 40, MinLon: -75, MaxLat: 41, MaxLon: -74}
	filter := box.FilterPredicate()
	require.NotNil(t, filter)
	assert.Equal(t, *box, filter.Box)
	assert.Equal(t, "POLYGON((-75 40,-75 41,-74 41,-74 40,-75 40))", filter.WKT)

	ring, err := DecodePolygon(filter.WKT)
	require.NoError(t, err)
	assert.Equal(t, box.Ring(), ring)
}

func TestBoundingBox_CoversWorld(t *testing.T) {
	world := WorldBoundingBox
	assert.True(t, world.CoversWorld())
	assert.False(t, (&BoundingBox{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 179}).CoversWorld())
}

func TestBoundingBox_Clamp(t *testing.T) {
	box := &BoundingBox{MinLat: -1, MinLon: 0, MaxLat: 0.1, MaxLon: 20}

	// среднее трех значений 0.1 во float64 чуть больше 0.1
	centroid := LatLon{Lat: (0.1 + 0.1 + 0.1) / 3, Lon: 10}
	clamped := box.Clamp(centroid)
	assert.True(t, box.Contains(clamped))
	assert.Equal(t, 0.1, clamped.Lat)
	assert.Equal(t, 10.0, clamped.Lon)

	assert.Equal(t, LatLon{Lat: -1, Lon: 20}, box.Clamp(LatLon{Lat: -5, Lon: 25}))
	assert.Equal(t, LatLon{Lat: 0.05, Lon: 3}, box.Clamp(LatLon{Lat: 0.05, Lon: 3}))

	var unbounded *BoundingBox
	assert.Equal(t, LatLon{Lat: 95, Lon: 200}, unbounded.Clamp(LatLon{Lat: 95, Lon: 200}))
}
