package repository

import (
	"context"

	"github.com/map-cluster-service/internal/domain"
)

// PointRepository определяет методы чтения маркеров
type PointRepository interface {
	// GetInBBox возвращает точки внутри bbox (не более limit)
	GetInBBox(ctx context.Context, bbox domain.BoundingBox, limit int) ([]*domain.Point, error)

	// All возвращает все точки (для построения in-memory индекса)
	All(ctx context.Context) ([]*domain.Point, error)
}
