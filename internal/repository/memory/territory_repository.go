package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"
	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
)

type indexedTerritory struct {
	territory *domain.Territory
	seq       int
	rect      rtreego.Rect
}

func (t *indexedTerritory) Bounds() rtreego.Rect {
	return t.rect
}

type territoryRepository struct {
	mu    sync.RWMutex
	tree  *rtreego.Rtree
	items []*indexedTerritory
	now   func() time.Time
}

// NewTerritoryRepository создает in-memory хранилище территорий с R-Tree
// индексом по охватывающим прямоугольникам
func NewTerritoryRepository() repository.TerritoryRepository {
	return &territoryRepository{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
		now:  time.Now,
	}
}

func (r *territoryRepository) Insert(ctx context.Context, name, color, geometry string) (*domain.Territory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ring, err := domain.DecodePolygon(geometry)
	if err != nil {
		return nil, fmt.Errorf("insert territory: %w", err)
	}

	t := &domain.Territory{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		Geometry:  geometry,
		Ring:      ring,
		CreatedAt: r.now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item := &indexedTerritory{
		territory: t,
		seq:       len(r.items),
		rect:      boxRect(t.Envelope()),
	}
	r.items = append(r.items, item)
	r.tree.Insert(item)

	cp := *t
	return &cp, nil
}

func (r *territoryRepository) Query(ctx context.Context, filter *domain.ContainmentFilter) ([]*domain.Territory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []*indexedTerritory
	if filter == nil {
		candidates = r.items
	} else {
		for _, s := range r.tree.SearchIntersect(boxRect(filter.Box)) {
			item := s.(*indexedTerritory)
			if item.territory.MatchesFilter(filter) {
				candidates = append(candidates, item)
			}
		}
		slices.SortFunc(candidates, func(a, b *indexedTerritory) int { return a.seq - b.seq })
	}

	result := make([]*domain.Territory, len(candidates))
	for i, item := range candidates {
		cp := *item.territory
		result[i] = &cp
	}
	return result, nil
}
