package domain

import (
	"math"
	"time"
)

// LatLon представляет координаты точки (WGS84, градусы)
type LatLon struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// IsFinite проверяет, что обе координаты конечны
func (p LatLon) IsFinite() bool {
	return isFinite(p.Lat) && isFinite(p.Lon)
}

// InRange проверяет допустимые диапазоны широты и долготы
func (p LatLon) InRange() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Statistics представляет общую статистику по данным сервиса
type Statistics struct {
	Points           int64     `json:"points"`
	Territories      int64     `json:"territories"`
	CachedZoomLevels []int     `json:"cached_zoom_levels"`
	LastUpdated      time.Time `json:"last_updated"`
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
