package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidBoundingBox возвращается строгим разбором bbox
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// BoundingBox представляет прямоугольную область карты.
// nil *BoundingBox означает отсутствие ограничения (весь мир).
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// WorldBoundingBox - полный экстент WGS84
var WorldBoundingBox = BoundingBox{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}

// ContainmentFilter - предикат пространственной фильтрации для хранилищ.
// WKT используется PostGIS, Box - in-memory реализациями.
type ContainmentFilter struct {
	Box BoundingBox
	WKT string
}

// ParseBoundingBox строит bbox из опциональных значений. Любое отсутствующее,
// нечисловое, вне диапазона или инвертированное значение дает nil.
func ParseBoundingBox(minLat, minLon, maxLat, maxLon *float64) *BoundingBox {
	box, err := ParseBoundingBoxStrict(minLat, minLon, maxLat, maxLon)
	if err != nil {
		return nil
	}
	return box
}

// ParseBoundingBoxStrict - как ParseBoundingBox, но возвращает причину отказа
func ParseBoundingBoxStrict(minLat, minLon, maxLat, maxLon *float64) (*BoundingBox, error) {
	values := [4]*float64{minLat, minLon, maxLat, maxLon}
	names := [4]string{"min_lat", "min_lon", "max_lat", "max_lon"}

	for i, v := range values {
		if v == nil {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidBoundingBox, names[i])
		}
		if !isFinite(*v) {
			return nil, fmt.Errorf("%w: %s must be a finite number", ErrInvalidBoundingBox, names[i])
		}
	}

	box := &BoundingBox{MinLat: *minLat, MinLon: *minLon, MaxLat: *maxLat, MaxLon: *maxLon}
	if err := box.Validate(); err != nil {
		return nil, err
	}
	return box, nil
}

// Validate проверяет диапазоны и порядок границ
func (b *BoundingBox) Validate() error {
	switch {
	case b.MinLat < -90 || b.MaxLat > 90 || b.MaxLat < -90 || b.MinLat > 90:
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrInvalidBoundingBox)
	case b.MinLon < -180 || b.MaxLon > 180 || b.MaxLon < -180 || b.MinLon > 180:
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrInvalidBoundingBox)
	case b.MinLat > b.MaxLat:
		return fmt.Errorf("%w: min_lat is greater than max_lat", ErrInvalidBoundingBox)
	case b.MinLon > b.MaxLon:
		return fmt.Errorf("%w: min_lon is greater than max_lon", ErrInvalidBoundingBox)
	}
	return nil
}

// Contains проверяет попадание точки в bbox (границы включительно)
func (b *BoundingBox) Contains(p LatLon) bool {
	if b == nil {
		return true
	}
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Intersects проверяет пересечение двух bbox (касание считается пересечением)
func (b *BoundingBox) Intersects(other *BoundingBox) bool {
	if b == nil || other == nil {
		return true
	}
	return b.MinLat <= other.MaxLat && other.MinLat <= b.MaxLat &&
		b.MinLon <= other.MaxLon && other.MinLon <= b.MaxLon
}

// CoversWorld проверяет, что bbox покрывает весь экстент
func (b *BoundingBox) CoversWorld() bool {
	return b == nil || *b == WorldBoundingBox
}

// Ring возвращает замкнутое кольцо прямоугольника
func (b *BoundingBox) Ring() []LatLon {
	return []LatLon{
		{Lat: b.MinLat, Lon: b.MinLon},
		{Lat: b.MaxLat, Lon: b.MinLon},
		{Lat: b.MaxLat, Lon: b.MaxLon},
		{Lat: b.MinLat, Lon: b.MaxLon},
		{Lat: b.MinLat, Lon: b.MinLon},
	}
}

// FilterPredicate строит предикат для хранилища; для nil возвращает nil.
// Вырожденный (нулевой площади) bbox тоже кодируется, PostGIS обрабатывает его как линию/точку.
func (b *BoundingBox) FilterPredicate() *ContainmentFilter {
	if b == nil {
		return nil
	}
	return &ContainmentFilter{
		Box: *b,
		WKT: formatPolygon(b.Ring()),
	}
}

// String для логов
func (b *BoundingBox) String() string {
	if b == nil {
		return "unbounded"
	}
	return fmt.Sprintf("[%g,%g,%g,%g]", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// Clamp прижимает точку к границам bbox. Центроид точек внутри bbox
// может выйти за границу на ошибку округления при усреднении.
func (b *BoundingBox) Clamp(p LatLon) LatLon {
	if b == nil {
		return p
	}
	return LatLon{
		Lat: min(max(p.Lat, b.MinLat), b.MaxLat),
		Lon: min(max(p.Lon, b.MinLon), b.MaxLon),
	}
}
