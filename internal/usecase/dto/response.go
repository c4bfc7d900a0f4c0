package dto

import (
	"time"

	"github.com/map-cluster-service/internal/domain"
)

// TerritoryResponse - территория в ответе API
type TerritoryResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Color       string                `json:"color"`
	Coordinates []domain.LatLon       `json:"coordinates"`
	Geometry    domain.GeoJSONPolygon `json:"geometry"`
	WKT         string                `json:"wkt"`
	CreatedAt   time.Time             `json:"created_at"`
}

// NewTerritoryResponse преобразует доменную территорию в ответ
func NewTerritoryResponse(t *domain.Territory) TerritoryResponse {
	return TerritoryResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Color:       t.Color,
		Coordinates: domain.CloseRing(t.Ring),
		Geometry:    domain.NewGeoJSONPolygon(t.Ring),
		WKT:         t.Geometry,
		CreatedAt:   t.CreatedAt,
	}
}

// NewTerritoryResponses преобразует список территорий
func NewTerritoryResponses(territories []*domain.Territory) []TerritoryResponse {
	out := make([]TerritoryResponse, 0, len(territories))
	for _, t := range territories {
		out = append(out, NewTerritoryResponse(t))
	}
	return out
}

// ClusterResponse - кластеры zoom уровня
type ClusterResponse struct {
	ZoomLevel  int                  `json:"zoom_level"`
	Bounds     *domain.BoundingBox  `json:"bounds,omitempty"`
	Clusters   []domain.Cluster     `json:"clusters"`
	Source     domain.ClusterSource `json:"source"`
	ComputedAt time.Time            `json:"computed_at"`
}

// MapInitialResponse - данные для первой загрузки карты
type MapInitialResponse struct {
	InitialZoom int                 `json:"initial_zoom"`
	Clusters    []domain.Cluster    `json:"clusters"`
	Territories []TerritoryResponse `json:"territories"`
}

// ClusterCacheStatusResponse - состояние кэша кластеров
type ClusterCacheStatusResponse struct {
	InstanceID       string `json:"instance_id"`
	MaxZoom          int    `json:"max_zoom"`
	CachedZoomLevels []int  `json:"cached_zoom_levels"`
}

// ClusterCacheInvalidateResponse - результат сброса кэша
type ClusterCacheInvalidateResponse struct {
	Scope     string `json:"scope"`
	ZoomLevel *int   `json:"zoom_level,omitempty"`
}

// ClusterWarmResponse - результат прогрева одного zoom уровня
type ClusterWarmResponse struct {
	ZoomLevel int `json:"zoom_level"`
	Clusters  int `json:"clusters"`
}

// HealthResponse - состояние сервиса и зависимостей
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
