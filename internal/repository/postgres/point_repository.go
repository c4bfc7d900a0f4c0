package postgres

import (
	"context"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	pointsInBBoxQuery = `
		SELECT id, name, address, ST_Y(location) AS latitude, ST_X(location) AS longitude
		FROM points
		WHERE location && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		ORDER BY id
		LIMIT $5`

	pointsAllQuery = `
		SELECT id, name, address, ST_Y(location) AS latitude, ST_X(location) AS longitude
		FROM points
		ORDER BY id`
)

type pointRepository struct {
	db *DB
}

// NewPointRepository создает репозиторий маркеров
func NewPointRepository(db *DB) repository.PointRepository {
	return &pointRepository{db: db}
}

// GetInBBox возвращает точки внутри bbox (границы включительно)
func (r *pointRepository) GetInBBox(ctx context.Context, bbox domain.BoundingBox, limit int) ([]*domain.Point, error) {
	var points []*domain.Point
	err := r.db.SelectContext(ctx, &points, pointsInBBoxQuery,
		bbox.MinLon, bbox.MinLat, bbox.MaxLon, bbox.MaxLat, limit)
	if err != nil {
		r.db.logger.Error("failed to get points in bbox", zap.Stringer("bbox", &bbox), zap.Error(err))
		return nil, wrapError("get points in bbox", err)
	}
	return points, nil
}

// All возвращает все точки
func (r *pointRepository) All(ctx context.Context) ([]*domain.Point, error) {
	var points []*domain.Point
	if err := r.db.SelectContext(ctx, &points, pointsAllQuery); err != nil {
		r.db.logger.Error("failed to load points", zap.Error(err))
		return nil, wrapError("load points", err)
	}
	return points, nil
}
