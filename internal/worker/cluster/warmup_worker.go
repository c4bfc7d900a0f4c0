package cluster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/map-cluster-service/internal/usecase"
	"github.com/map-cluster-service/internal/worker"
	"go.uber.org/zap"
)

// Refresher пересчитывает кластеры zoom уровня и обновляет кэш
type Refresher interface {
	Refresh(ctx context.Context, zoom int) (*usecase.ClusterResult, error)
}

// WarmupWorker периодически прогревает кэш кластеров для заданных zoom уровней
type WarmupWorker struct {
	*worker.BaseWorker
	cache      Refresher
	zoomLevels []int
	interval   time.Duration
}

// NewWarmupWorker создает новый WarmupWorker.
// interval <= 0 - прогрев только при старте.
func NewWarmupWorker(
	cache Refresher,
	zoomLevels []int,
	interval time.Duration,
	logger *zap.Logger,
) *WarmupWorker {
	return &WarmupWorker{
		BaseWorker: worker.NewBaseWorker("cluster-warmup", logger),
		cache:      cache,
		zoomLevels: zoomLevels,
		interval:   interval,
	}
}

// Start запускает воркер
func (w *WarmupWorker) Start(ctx context.Context) error {
	ctx, cancel := w.Context(ctx)
	defer cancel()

	logger := w.Logger()
	logger.Info("Starting cluster warmup worker",
		zap.Ints("zoom_levels", w.zoomLevels),
		zap.Duration("interval", w.interval))

	if err := w.WarmOnce(ctx); err != nil {
		logger.Warn("Initial cluster warmup incomplete", zap.Error(err))
	}

	if w.interval <= 0 {
		<-ctx.Done()
		logger.Info("Worker stopped")
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker stopped")
			return nil
		case <-ticker.C:
			if err := w.WarmOnce(ctx); err != nil {
				logger.Warn("Cluster warmup incomplete", zap.Error(err))
			}
		}
	}
}

// WarmOnce пересчитывает все настроенные zoom уровни.
// Ошибка одного уровня не прерывает остальные.
func (w *WarmupWorker) WarmOnce(ctx context.Context) error {
	logger := w.Logger()
	start := time.Now()

	var errs []error
	for _, zoom := range w.zoomLevels {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		res, err := w.cache.Refresh(ctx, zoom)
		if err != nil {
			logger.Error("Failed to warm clusters",
				zap.Int("zoom", zoom),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("zoom %d: %w", zoom, err))
			continue
		}

		logger.Debug("Clusters warmed",
			zap.Int("zoom", zoom),
			zap.Int("clusters", len(res.Clusters)))
	}

	logger.Info("Cluster warmup finished",
		zap.Int("zoom_levels", len(w.zoomLevels)),
		zap.Int("failed", len(errs)),
		zap.Duration("elapsed", time.Since(start)))

	return errors.Join(errs...)
}
