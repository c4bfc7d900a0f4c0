package dto

import "github.com/map-cluster-service/internal/domain"

// CoordinateRequest - вершина полигона. Долгота принимается как lon или lng.
type CoordinateRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lon *float64 `json:"lon,omitempty" validate:"required_without=Lng"`
	Lng *float64 `json:"lng,omitempty" validate:"required_without=Lon"`
}

// LatLon возвращает координаты вершины
func (c CoordinateRequest) LatLon() domain.LatLon {
	p := domain.LatLon{}
	if c.Lat != nil {
		p.Lat = *c.Lat
	}
	switch {
	case c.Lon != nil:
		p.Lon = *c.Lon
	case c.Lng != nil:
		p.Lon = *c.Lng
	}
	return p
}

// CreateTerritoryRequest - запрос на создание территории
type CreateTerritoryRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Color       string              `json:"color" validate:"required,max=64"`
	Coordinates []CoordinateRequest `json:"coordinates" validate:"required,min=3,max=10000,dive"`
}

// Ring возвращает кольцо полигона в порядке запроса
func (r *CreateTerritoryRequest) Ring() []domain.LatLon {
	ring := make([]domain.LatLon, len(r.Coordinates))
	for i, c := range r.Coordinates {
		ring[i] = c.LatLon()
	}
	return ring
}

// WarmClustersRequest - запрос на прогрев кэша кластеров
type WarmClustersRequest struct {
	ZoomLevels []int `json:"zoom_levels" validate:"required,min=1,max=23,dive,min=0,max=22"`
}
