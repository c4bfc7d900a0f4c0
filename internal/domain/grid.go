package domain

import "math"

// Zoom levels
const (
	MinZoom     = 0
	MaxZoom     = 20
	MaxZoomHard = 22
	DefaultZoom = 10

	// InitialMapZoom - zoom, с которым клиент открывает карту
	InitialMapZoom = 5

	// GridCellsPerTile - количество ячеек сетки на ребро тайла
	GridCellsPerTile = 4
)

// GridCell - индекс ячейки сетки кластеризации
type GridCell struct {
	X int64
	Y int64
}

// GridCellSize возвращает ребро ячейки в градусах для zoom уровня
func GridCellSize(zoom int) float64 {
	return 360.0 / math.Ldexp(1, zoom) / GridCellsPerTile
}

// SnapToGrid привязывает точку к ближайшему узлу сетки.
// Округление к четному совпадает с rint() в ST_SnapToGrid.
func SnapToGrid(p LatLon, cellSize float64) GridCell {
	return GridCell{
		X: int64(math.RoundToEven(p.Lon / cellSize)),
		Y: int64(math.RoundToEven(p.Lat / cellSize)),
	}
}

// ValidZoom проверяет zoom в диапазоне [MinZoom, maxZoom]
func ValidZoom(zoom, maxZoom int) bool {
	return zoom >= MinZoom && zoom <= maxZoom
}
