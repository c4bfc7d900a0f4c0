package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClusterRow_Validate(t *testing.T) {
	box := &BoundingBox{MinLat: 30, MinLon: -80, MaxLat: 45, MaxLon: -70}

	tests := []struct {
		name    string
		row     ClusterRow
		bbox    *BoundingBox
		wantErr bool
	}{
		{name: "valid unbounded", row: ClusterRow{Count: 12, Latitude: 40, Longitude: -75}},
		{name: "valid bounded", row: ClusterRow{Count: 1, Latitude: 40, Longitude: -75}, bbox: box},
		{name: "zero count", row: ClusterRow{Count: 0, Latitude: 40, Longitude: -75}, wantErr: true},
		{name: "NaN latitude", row: ClusterRow{Count: 3, Latitude: math.NaN(), Longitude: -75}, wantErr: true},
		{name: "latitude out of range", row: ClusterRow{Count: 3, Latitude: 95, Longitude: -75}, wantErr: true},
		{name: "centroid outside bbox", row: ClusterRow{Count: 3, Latitude: 34, Longitude: -118}, bbox: box, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.row.Validate(tt.bbox)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSortClusters(t *testing.T) {
	clusters := []Cluster{
		{Count: 3, Latitude: 34, Longitude: -118},
		{Count: 12, Latitude: 40, Longitude: -75},
		{Count: 3, Latitude: 34, Longitude: -120},
		{Count: 3, Latitude: 10, Longitude: 5},
	}

	SortClusters(clusters)

	assert.Equal(t, []Cluster{
		{Count: 12, Latitude: 40, Longitude: -75},
		{Count: 3, Latitude: 10, Longitude: 5},
		{Count: 3, Latitude: 34, Longitude: -120},
		{Count: 3, Latitude: 34, Longitude: -118},
	}, clusters)
}
