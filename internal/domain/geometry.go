package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidGeometry возвращается кодеком для некорректных полигонов
var ErrInvalidGeometry = errors.New("invalid geometry")

const (
	minRingVertices       = 3
	minClosedRingVertices = 4

	wktPolygon = "POLYGON"
	ewktSRID   = "SRID="
)

// EncodePolygon кодирует кольцо {lat, lon} в WKT полигон с порядком (lon lat).
// Незамкнутое кольцо замыкается копией первой вершины, замкнутое не дублируется.
func EncodePolygon(ring []LatLon) (string, error) {
	if len(ring) < minRingVertices {
		return "", fmt.Errorf("%w: polygon requires at least %d vertices, got %d",
			ErrInvalidGeometry, minRingVertices, len(ring))
	}

	for i, p := range ring {
		if !p.IsFinite() {
			return "", fmt.Errorf("%w: vertex %d has non-finite coordinates", ErrInvalidGeometry, i)
		}
	}

	if n := distinctVertices(ring); n < minRingVertices {
		return "", fmt.Errorf("%w: polygon requires at least %d distinct vertices, got %d",
			ErrInvalidGeometry, minRingVertices, n)
	}

	return formatPolygon(CloseRing(ring)), nil
}

// DecodePolygon разбирает WKT (или EWKT с префиксом SRID) с одним замкнутым кольцом
func DecodePolygon(text string) ([]LatLon, error) {
	s := strings.TrimSpace(text)

	if hasPrefixFold(s, ewktSRID) {
		semi := strings.IndexByte(s, ';')
		if semi < 0 {
			return nil, fmt.Errorf("%w: malformed SRID prefix", ErrInvalidGeometry)
		}
		s = strings.TrimSpace(s[semi+1:])
	}

	if !hasPrefixFold(s, wktPolygon) {
		return nil, fmt.Errorf("%w: not a polygon", ErrInvalidGeometry)
	}

	body, ok := unwrapParens(strings.TrimSpace(s[len(wktPolygon):]))
	if !ok {
		return nil, fmt.Errorf("%w: malformed polygon body", ErrInvalidGeometry)
	}
	body, ok = unwrapParens(strings.TrimSpace(body))
	if !ok || strings.ContainsAny(body, "()") {
		return nil, fmt.Errorf("%w: expected a single ring", ErrInvalidGeometry)
	}

	parts := strings.Split(body, ",")
	ring := make([]LatLon, 0, len(parts))
	for i, part := range parts {
		fields := strings.Fields(part)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: vertex %d must have exactly two coordinates", ErrInvalidGeometry, i)
		}

		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex %d: %v", ErrInvalidGeometry, i, err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex %d: %v", ErrInvalidGeometry, i, err)
		}

		p := LatLon{Lat: lat, Lon: lon}
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: vertex %d has non-finite coordinates", ErrInvalidGeometry, i)
		}
		ring = append(ring, p)
	}

	if len(ring) < minClosedRingVertices {
		return nil, fmt.Errorf("%w: ring requires at least %d vertices, got %d",
			ErrInvalidGeometry, minClosedRingVertices, len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		return nil, fmt.Errorf("%w: ring is not closed", ErrInvalidGeometry)
	}

	return ring, nil
}

// CloseRing возвращает копию кольца, замкнутую при необходимости
func CloseRing(ring []LatLon) []LatLon {
	out := make([]LatLon, len(ring), len(ring)+1)
	copy(out, ring)
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

// GeoJSONPolygon - полигон в формате GeoJSON (координаты [lon, lat])
type GeoJSONPolygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// NewGeoJSONPolygon строит GeoJSON полигон из кольца
func NewGeoJSONPolygon(ring []LatLon) GeoJSONPolygon {
	closed := CloseRing(ring)
	coords := make([][2]float64, len(closed))
	for i, p := range closed {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return GeoJSONPolygon{
		Type:        "Polygon",
		Coordinates: [][][2]float64{coords},
	}
}

// RingEnvelope возвращает минимальный охватывающий прямоугольник кольца
func RingEnvelope(ring []LatLon) BoundingBox {
	if len(ring) == 0 {
		return BoundingBox{}
	}
	env := BoundingBox{MinLat: ring[0].Lat, MinLon: ring[0].Lon, MaxLat: ring[0].Lat, MaxLon: ring[0].Lon}
	for _, p := range ring[1:] {
		env.MinLat = min(env.MinLat, p.Lat)
		env.MinLon = min(env.MinLon, p.Lon)
		env.MaxLat = max(env.MaxLat, p.Lat)
		env.MaxLon = max(env.MaxLon, p.Lon)
	}
	return env
}

// RingIntersectsBox проверяет, пересекается ли полигон с прямоугольником
// (включая случаи полного вложения в любую сторону)
func RingIntersectsBox(ring []LatLon, box BoundingBox) bool {
	if len(ring) == 0 {
		return false
	}
	env := RingEnvelope(ring)
	if !env.Intersects(&box) {
		return false
	}

	for _, p := range ring {
		if box.Contains(p) {
			return true
		}
	}

	corners := box.Ring()
	if pointInRing(corners[0], ring) {
		return true
	}

	closed := CloseRing(ring)
	for i := 0; i+1 < len(closed); i++ {
		for j := 0; j+1 < len(corners); j++ {
			if segmentsIntersect(closed[i], closed[i+1], corners[j], corners[j+1]) {
				return true
			}
		}
	}

	return false
}

func formatPolygon(closed []LatLon) string {
	var b strings.Builder
	b.WriteString("POLYGON((")
	for i, p := range closed {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatCoord(p.Lon))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Lat))
	}
	b.WriteString("))")
	return b.String()
}

func formatCoord(v float64) string {
	if v == 0 {
		v = 0 // -0 -> 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func distinctVertices(ring []LatLon) int {
	seen := make(map[LatLon]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}

func unwrapParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// pointInRing - метод лучей (even-odd)
func pointInRing(pt LatLon, ring []LatLon) bool {
	n := len(ring)
	if n < minRingVertices {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if (yi > pt.Lat) != (yj > pt.Lat) &&
			pt.Lon < (xj-xi)*(pt.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func segmentsIntersect(p1, p2, q1, q2 LatLon) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func orientation(a, b, c LatLon) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

func onSegment(a, b, p LatLon) bool {
	return p.Lon >= min(a.Lon, b.Lon) && p.Lon <= max(a.Lon, b.Lon) &&
		p.Lat >= min(a.Lat, b.Lat) && p.Lat <= max(a.Lat, b.Lat)
}
