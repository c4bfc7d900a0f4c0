package domain

// Point - исходный маркер карты, из которого строятся кластеры
type Point struct {
	ID        int64   `json:"id" db:"id"`
	Name      *string `json:"name,omitempty" db:"name"`
	Address   *string `json:"address,omitempty" db:"address"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Location возвращает координаты точки
func (p *Point) Location() LatLon {
	return LatLon{Lat: p.Latitude, Lon: p.Longitude}
}
