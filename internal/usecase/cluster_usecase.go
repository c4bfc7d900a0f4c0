package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/pkg/errors"
	"github.com/map-cluster-service/internal/pkg/metrics"
	"go.uber.org/zap"
)

// ClusterUseCase обрабатывает бизнес-логику для кластеров точек
type ClusterUseCase struct {
	aggregator   repository.ClusterAggregator
	maxZoom      int
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewClusterUseCase создает новый экземпляр ClusterUseCase
func NewClusterUseCase(
	aggregator repository.ClusterAggregator,
	maxZoom int,
	queryTimeout time.Duration,
	logger *zap.Logger,
) *ClusterUseCase {
	if maxZoom <= 0 || maxZoom > domain.MaxZoomHard {
		maxZoom = domain.MaxZoom
	}
	return &ClusterUseCase{
		aggregator:   aggregator,
		maxZoom:      maxZoom,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// MaxZoom возвращает максимальный допустимый zoom уровень
func (uc *ClusterUseCase) MaxZoom() int {
	return uc.maxZoom
}

// ValidateZoom проверяет zoom уровень
func (uc *ClusterUseCase) ValidateZoom(zoom int) error {
	if domain.ValidZoom(zoom, uc.maxZoom) {
		return nil
	}
	return errors.ErrInvalidZoom.
		WithMessage(fmt.Sprintf("zoom must be between %d and %d", domain.MinZoom, uc.maxZoom)).
		WithDetails(map[string]interface{}{"zoom": zoom})
}

// GetClusters возвращает кластеры для zoom уровня.
// bbox == nil - весь мир, иначе только кластеры с центроидом внутри bbox.
func (uc *ClusterUseCase) GetClusters(ctx context.Context, zoom int, bbox *domain.BoundingBox) ([]domain.Cluster, error) {
	if err := uc.ValidateZoom(zoom); err != nil {
		return nil, err
	}
	if bbox != nil {
		if err := bbox.Validate(); err != nil {
			return nil, errors.ErrInvalidBoundingBox.WithMessage(err.Error())
		}
	}

	if uc.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := uc.aggregator.AggregateClusters(ctx, zoom, bbox)
	metrics.ObserveAggregation(bbox != nil, err, time.Since(start))
	if err != nil {
		uc.logger.Error("Cluster aggregation failed",
			zap.Int("zoom", zoom),
			zap.Stringer("bbox", bbox),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, errors.ErrAggregationFailed.Wrap(err)
	}

	clusters := make([]domain.Cluster, 0, len(rows))
	for i, row := range rows {
		if err := row.Validate(bbox); err != nil {
			uc.logger.Error("Aggregator returned invalid cluster",
				zap.Int("zoom", zoom),
				zap.Int("row", i),
				zap.Error(err))
			return nil, errors.ErrAggregationFailed.Wrap(fmt.Errorf("row %d: %w", i, err))
		}
		clusters = append(clusters, row.Cluster(zoom))
	}
	domain.SortClusters(clusters)

	uc.logger.Debug("Clusters aggregated",
		zap.Int("zoom", zoom),
		zap.Bool("bounded", bbox != nil),
		zap.Int("clusters", len(clusters)),
		zap.Duration("elapsed", time.Since(start)))

	return clusters, nil
}
