package postgres

import (
	"context"
	"fmt"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	territoryInsertQuery = `
		INSERT INTO territories (name, color, geometry)
		VALUES ($1, $2, ST_GeomFromText($3, 4326))
		RETURNING id, name, color, ST_AsText(geometry) AS geometry, created_at`

	territorySelectAllQuery = `
		SELECT id, name, color, ST_AsText(geometry) AS geometry, created_at
		FROM territories
		ORDER BY created_at, id`

	territorySelectIntersectingQuery = `
		SELECT id, name, color, ST_AsText(geometry) AS geometry, created_at
		FROM territories
		WHERE ST_Intersects(geometry, ST_GeomFromText($1, 4326))
		ORDER BY created_at, id`
)

type territoryRepository struct {
	db *DB
}

// NewTerritoryRepository создает репозиторий территорий на PostGIS
func NewTerritoryRepository(db *DB) repository.TerritoryRepository {
	return &territoryRepository{db: db}
}

// Insert сохраняет территорию и возвращает запись с id из базы
func (r *territoryRepository) Insert(ctx context.Context, name, color, geometry string) (*domain.Territory, error) {
	var t domain.Territory
	if err := r.db.GetContext(ctx, &t, territoryInsertQuery, name, color, geometry); err != nil {
		r.db.logger.Error("failed to insert territory", zap.String("name", name), zap.Error(err))
		return nil, wrapError("insert territory", err)
	}

	// строка уже сохранена, поэтому это сбой хранилища, а не ошибка клиента
	if err := t.DecodeGeometry(); err != nil {
		r.db.logger.Error("failed to decode inserted territory", zap.Stringer("id", t.ID), zap.Error(err))
		return nil, fmt.Errorf("decode stored territory %s: %v", t.ID, err)
	}

	return &t, nil
}

// Query возвращает территории, пересекающиеся с фильтром (или все при nil)
func (r *territoryRepository) Query(ctx context.Context, filter *domain.ContainmentFilter) ([]*domain.Territory, error) {
	var (
		territories []*domain.Territory
		err         error
	)
	if filter != nil {
		err = r.db.SelectContext(ctx, &territories, territorySelectIntersectingQuery, filter.WKT)
	} else {
		err = r.db.SelectContext(ctx, &territories, territorySelectAllQuery)
	}
	if err != nil {
		r.db.logger.Error("failed to query territories", zap.Bool("filtered", filter != nil), zap.Error(err))
		return nil, wrapError("query territories", err)
	}

	for _, t := range territories {
		if err := t.DecodeGeometry(); err != nil {
			return nil, fmt.Errorf("decode stored territory %s: %w", t.ID, err)
		}
	}

	return territories, nil
}
