package repository

import (
	"context"

	"github.com/map-cluster-service/internal/domain"
)

// ClusterAggregator - пространственный агрегатор точек в ячейки сетки
type ClusterAggregator interface {
	// AggregateClusters возвращает кластеры для zoom уровня.
	// bbox == nil означает весь мир.
	AggregateClusters(ctx context.Context, zoom int, bbox *domain.BoundingBox) ([]domain.ClusterRow, error)
}
