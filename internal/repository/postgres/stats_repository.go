package postgres

import (
	"context"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"go.uber.org/zap"
)

const statsQuery = `
	SELECT (SELECT COUNT(*) FROM points) AS points,
	       (SELECT COUNT(*) FROM territories) AS territories`

type statsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStatsRepository создает новый экземпляр stats repository
func NewStatsRepository(db *DB, logger *zap.Logger) repository.StatsRepository {
	return &statsRepository{
		db:     db,
		logger: logger,
	}
}

// GetStatistics возвращает количество точек и территорий
func (r *statsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	var counts struct {
		Points      int64 `db:"points"`
		Territories int64 `db:"territories"`
	}
	if err := r.db.GetContext(ctx, &counts, statsQuery); err != nil {
		r.logger.Error("failed to get statistics", zap.Error(err))
		return nil, wrapError("get statistics", err)
	}

	return &domain.Statistics{
		Points:      counts.Points,
		Territories: counts.Territories,
		LastUpdated: time.Now(),
	}, nil
}
