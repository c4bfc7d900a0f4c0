package repository

import (
	"context"

	"github.com/map-cluster-service/internal/domain"
)

// TerritoryRepository определяет методы хранения территорий
type TerritoryRepository interface {
	// Insert сохраняет территорию, geometry - WKT полигон (lon lat)
	Insert(ctx context.Context, name, color, geometry string) (*domain.Territory, error)

	// Query возвращает территории, пересекающиеся с фильтром.
	// filter == nil возвращает все территории в порядке создания.
	Query(ctx context.Context, filter *domain.ContainmentFilter) ([]*domain.Territory, error)
}
