package domain

import (
	"time"

	"github.com/google/uuid"
)

// Territory - сохраненный полигон, отображаемый поверх карты
type Territory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	Geometry  string    `json:"-" db:"geometry"` // WKT (lon lat)
	Ring      []LatLon  `json:"-" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DecodeGeometry заполняет Ring из WKT
func (t *Territory) DecodeGeometry() error {
	ring, err := DecodePolygon(t.Geometry)
	if err != nil {
		return err
	}
	t.Ring = ring
	return nil
}

// Envelope возвращает охватывающий прямоугольник территории
func (t *Territory) Envelope() BoundingBox {
	return RingEnvelope(t.Ring)
}

// MatchesFilter проверяет пересечение территории с фильтром (nil - любая)
func (t *Territory) MatchesFilter(filter *ContainmentFilter) bool {
	if filter == nil {
		return true
	}
	return RingIntersectsBox(t.Ring, filter.Box)
}
