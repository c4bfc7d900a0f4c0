package usecase

import (
	"context"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// StatsUseCase обрабатывает бизнес-логику для статистики
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	cacheRepo repository.CacheRepository
	clusters  *ClusterCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase.
// cacheRepo и clusters могут быть nil.
func NewStatsUseCase(
	statsRepo repository.StatsRepository,
	cacheRepo repository.CacheRepository,
	clusters *ClusterCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *StatsUseCase {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &StatsUseCase{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		clusters:  clusters,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// GetStatistics возвращает статистику, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	// 1. Проверяем кеш
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetStats(ctx)
		if err == nil && cached != nil {
			uc.logger.Debug("Statistics fetched from cache")
			return uc.withCacheInfo(cached), nil
		}
		if err != nil {
			uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
		}
	}

	// 2. Получаем из БД
	return uc.RefreshStatistics(ctx)
}

// RefreshStatistics принудительно обновляет статистику
func (uc *StatsUseCase) RefreshStatistics(ctx context.Context) (*domain.Statistics, error) {
	uc.logger.Debug("Fetching statistics from database")

	stats, err := uc.statsRepo.GetStatistics(ctx)
	if err != nil {
		uc.logger.Error("Failed to get statistics", zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}
	stats.LastUpdated = time.Now().UTC()

	// 3. Кешируем
	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetStats(ctx, stats, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache stats", zap.Error(err))
		}
	}

	return uc.withCacheInfo(stats), nil
}

// withCacheInfo добавляет текущие закэшированные zoom уровни (не кэшируется)
func (uc *StatsUseCase) withCacheInfo(stats *domain.Statistics) *domain.Statistics {
	out := *stats
	out.CachedZoomLevels = []int{}
	if uc.clusters != nil {
		out.CachedZoomLevels = uc.clusters.CachedZoomLevels()
	}
	return &out
}
