package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/map-cluster-service/internal/domain"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
	tolerance   = 1e-9
)

// indexedPoint - обертка точки для R-дерева
type indexedPoint struct {
	point *domain.Point
	rect  rtreego.Rect
}

func (p *indexedPoint) Bounds() rtreego.Rect {
	return p.rect
}

// PointIndex - потокобезопасный R-Tree индекс маркеров.
// Реализует repository.ClusterAggregator и repository.PointRepository.
type PointIndex struct {
	mu     sync.RWMutex
	tree   *rtreego.Rtree
	points []*domain.Point // по возрастанию ID
}

// NewPointIndex создает пустой индекс
func NewPointIndex() *PointIndex {
	return &PointIndex{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
	}
}

// Load заменяет содержимое индекса (bulk load)
func (idx *PointIndex) Load(points []*domain.Point) {
	items := make([]rtreego.Spatial, 0, len(points))
	sorted := make([]*domain.Point, 0, len(points))
	for _, p := range points {
		if p == nil {
			continue
		}
		items = append(items, newIndexedPoint(p))
		sorted = append(sorted, p)
	}
	slices.SortFunc(sorted, func(a, b *domain.Point) int { return cmp.Compare(a.ID, b.ID) })

	tree := rtreego.NewTree(dimensions, minChildren, maxChildren, items...)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.tree = tree
	idx.points = sorted
}

// Insert добавляет точку в индекс
func (idx *PointIndex) Insert(p *domain.Point) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.tree.Insert(newIndexedPoint(p))
	pos, _ := slices.BinarySearchFunc(idx.points, p.ID, func(e *domain.Point, id int64) int {
		return cmp.Compare(e.ID, id)
	})
	idx.points = slices.Insert(idx.points, pos, p)
}

// Size возвращает количество точек в индексе
func (idx *PointIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.Size()
}

// AggregateClusters группирует точки по ячейкам сетки так же, как
// ST_SnapToGrid: ближайший узел сетки, центроид - среднее точек ячейки
func (idx *PointIndex) AggregateClusters(ctx context.Context, zoom int, bbox *domain.BoundingBox) ([]domain.ClusterRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type accumulator struct {
		count  int64
		sumLat float64
		sumLon float64
	}

	cellSize := domain.GridCellSize(zoom)
	cells := make(map[domain.GridCell]*accumulator)

	idx.mu.RLock()
	for _, p := range idx.search(bbox) {
		loc := p.Location()
		cell := domain.SnapToGrid(loc, cellSize)
		acc, ok := cells[cell]
		if !ok {
			acc = &accumulator{}
			cells[cell] = acc
		}
		acc.count++
		acc.sumLat += loc.Lat
		acc.sumLon += loc.Lon
	}
	idx.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]domain.ClusterRow, 0, len(cells))
	for _, acc := range cells {
		n := float64(acc.count)
		centroid := bbox.Clamp(domain.LatLon{Lat: acc.sumLat / n, Lon: acc.sumLon / n})
		rows = append(rows, domain.ClusterRow{
			Count:     acc.count,
			Latitude:  centroid.Lat,
			Longitude: centroid.Lon,
		})
	}
	slices.SortFunc(rows, domain.CompareClusterRows)

	return rows, nil
}

// GetInBBox возвращает точки внутри bbox по возрастанию ID
func (idx *PointIndex) GetInBBox(ctx context.Context, bbox domain.BoundingBox, limit int) ([]*domain.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	found := idx.search(&bbox)
	idx.mu.RUnlock()

	slices.SortFunc(found, func(a, b *domain.Point) int { return cmp.Compare(a.ID, b.ID) })
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// All возвращает все точки по возрастанию ID
func (idx *PointIndex) All(ctx context.Context) ([]*domain.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.points), nil
}

// search должен вызываться под idx.mu
func (idx *PointIndex) search(bbox *domain.BoundingBox) []*domain.Point {
	if bbox == nil {
		return slices.Clone(idx.points)
	}

	results := idx.tree.SearchIntersect(boxRect(*bbox))
	points := make([]*domain.Point, 0, len(results))
	for _, r := range results {
		p := r.(*indexedPoint).point
		if bbox.Contains(p.Location()) {
			points = append(points, p)
		}
	}
	return points
}

func newIndexedPoint(p *domain.Point) *indexedPoint {
	return &indexedPoint{
		point: p,
		rect:  rtreego.Point{p.Latitude, p.Longitude}.ToRect(tolerance),
	}
}

// boxRect строит прямоугольник запроса, расширенный на tolerance,
// чтобы вырожденные bbox и точки на границе попадали в выборку
func boxRect(b domain.BoundingBox) rtreego.Rect {
	rect, _ := rtreego.NewRectFromPoints(
		rtreego.Point{b.MinLat - tolerance, b.MinLon - tolerance},
		rtreego.Point{b.MaxLat + tolerance, b.MaxLon + tolerance},
	)
	return rect
}
