package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Cluster - агрегированная группа точек для zoom уровня
type Cluster struct {
	Count     int64   `json:"count"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ZoomLevel int     `json:"zoom_level"`
}

// ClusterRow - строка, возвращаемая агрегатором
type ClusterRow struct {
	Count     int64   `db:"count" json:"count"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
}

// Validate проверяет корректность строки агрегатора
func (r ClusterRow) Validate(bbox *BoundingBox) error {
	p := LatLon{Lat: r.Latitude, Lon: r.Longitude}
	switch {
	case r.Count < 1:
		return fmt.Errorf("cluster count must be positive, got %d", r.Count)
	case !p.IsFinite():
		return fmt.Errorf("cluster centroid is not finite")
	case !p.InRange():
		return fmt.Errorf("cluster centroid (%g, %g) is out of range", r.Latitude, r.Longitude)
	case !bbox.Contains(p):
		return fmt.Errorf("cluster centroid (%g, %g) is outside %s", r.Latitude, r.Longitude, bbox)
	}
	return nil
}

// ClusterSource - откуда получен набор кластеров
type ClusterSource string

const (
	ClusterSourceAggregator ClusterSource = "aggregator"
	ClusterSourceSnapshot   ClusterSource = "snapshot"
)

// ClusterSnapshot - сериализуемый набор кластеров для одного zoom (L2 кэш)
type ClusterSnapshot struct {
	ZoomLevel  int           `json:"zoom_level"`
	Clusters   []Cluster     `json:"clusters"`
	ComputedAt time.Time     `json:"computed_at"`
	Source     ClusterSource `json:"source"`
}

// CompareClusters задает порядок выдачи: count desc, lat asc, lon asc
func CompareClusters(a, b Cluster) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Latitude, b.Latitude); c != 0 {
		return c
	}
	return cmp.Compare(a.Longitude, b.Longitude)
}

// SortClusters сортирует кластеры в порядке выдачи
func SortClusters(clusters []Cluster) {
	slices.SortStableFunc(clusters, CompareClusters)
}

// Cluster преобразует строку агрегатора в кластер zoom уровня
func (r ClusterRow) Cluster(zoom int) Cluster {
	return Cluster{
		Count:     r.Count,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		ZoomLevel: zoom,
	}
}

// CompareClusterRows - тот же порядок, что и CompareClusters
func CompareClusterRows(a, b ClusterRow) int {
	return CompareClusters(a.Cluster(0), b.Cluster(0))
}
