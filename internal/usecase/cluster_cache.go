package usecase

import (
	"context"
	stderrors "errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/pkg/errors"
	"github.com/map-cluster-service/internal/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ClusterResult - кластеры вместе с информацией о происхождении
type ClusterResult struct {
	Clusters   []domain.Cluster
	Cached     bool
	Source     domain.ClusterSource
	ComputedAt time.Time
}

// ClusterCacheOptions - параметры кэша кластеров
type ClusterCacheOptions struct {
	// SnapshotTTL - время жизни снимка в Redis (0 - без TTL)
	SnapshotTTL time.Duration
	// QueryTimeout ограничивает общее вычисление (L2 + агрегатор)
	QueryTimeout time.Duration
	// InstanceID идентифицирует процесс в событиях инвалидации
	InstanceID string
}

// clusterEntry - L1 запись одного zoom уровня
type clusterEntry struct {
	mu         sync.RWMutex
	valid      bool
	generation uint64
	clusters   []domain.Cluster
	computedAt time.Time
	source     domain.ClusterSource
}

func (e *clusterEntry) result() *ClusterResult {
	return &ClusterResult{
		Clusters:   e.clusters,
		Cached:     true,
		Source:     e.source,
		ComputedAt: e.computedAt,
	}
}

// ClusterCache - кэш неограниченных (без bbox) кластеров по zoom уровням.
// L1 хранится в процессе, L2 (опционально) - снимки в Redis.
type ClusterCache struct {
	query     *ClusterUseCase
	snapshots repository.CacheRepository
	streams   repository.StreamRepository
	opts      ClusterCacheOptions
	logger    *zap.Logger

	mu      sync.Mutex
	entries map[int]*clusterEntry
	closed  bool

	group singleflight.Group
}

// NewClusterCache создает кэш. snapshots и streams могут быть nil
// (Redis отключен), тогда работает только L1.
func NewClusterCache(
	query *ClusterUseCase,
	snapshots repository.CacheRepository,
	streams repository.StreamRepository,
	opts ClusterCacheOptions,
	logger *zap.Logger,
) *ClusterCache {
	if opts.InstanceID == "" {
		opts.InstanceID = uuid.NewString()
	}
	return &ClusterCache{
		query:     query,
		snapshots: snapshots,
		streams:   streams,
		opts:      opts,
		logger:    logger,
		entries:   make(map[int]*clusterEntry),
	}
}

// InstanceID возвращает идентификатор процесса для событий инвалидации
func (c *ClusterCache) InstanceID() string {
	return c.opts.InstanceID
}

// GetOrCompute возвращает кластеры для zoom уровня.
// Запросы с bbox всегда вычисляются заново и не кэшируются.
// Для запросов без bbox одновременно выполняется не более одного вычисления на zoom.
func (c *ClusterCache) GetOrCompute(ctx context.Context, zoom int, bbox *domain.BoundingBox) (*ClusterResult, error) {
	if bbox != nil {
		clusters, err := c.query.GetClusters(ctx, zoom, bbox)
		if err != nil {
			return nil, err
		}
		return &ClusterResult{
			Clusters:   clusters,
			Source:     domain.ClusterSourceAggregator,
			ComputedAt: time.Now().UTC(),
		}, nil
	}

	if err := c.query.ValidateZoom(zoom); err != nil {
		return nil, err
	}

	entry := c.entry(zoom)
	if entry == nil {
		// кэш закрыт
		return c.compute(ctx, zoom, nil)
	}

	entry.mu.RLock()
	if entry.valid {
		res := entry.result()
		entry.mu.RUnlock()
		metrics.ClusterCacheHits.WithLabelValues(metrics.TierL1).Inc()
		return res, nil
	}
	entry.mu.RUnlock()
	metrics.ClusterCacheMisses.WithLabelValues(metrics.TierL1).Inc()

	ch := c.group.DoChan(flightKey(zoom), func() (interface{}, error) {
		return c.compute(ctx, zoom, entry)
	})

	select {
	case <-ctx.Done():
		return nil, errors.ErrAggregationFailed.Wrap(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			metrics.ClusterCoalescedRequests.Inc()
		}
		return res.Val.(*ClusterResult), nil
	}
}

// compute выполняет общее вычисление для zoom уровня.
// Контекст отвязан от отмены вызывающего, чтобы отмена одного запроса
// не прерывала вычисление для остальных ожидающих.
func (c *ClusterCache) compute(parent context.Context, zoom int, entry *clusterEntry) (*ClusterResult, error) {
	var generation uint64
	if entry != nil {
		entry.mu.RLock()
		if entry.valid {
			res := entry.result()
			entry.mu.RUnlock()
			return res, nil
		}
		generation = entry.generation
		entry.mu.RUnlock()
	}

	ctx := context.WithoutCancel(parent)
	if c.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.QueryTimeout)
		defer cancel()
	}

	if res := c.loadSnapshot(ctx, zoom); res != nil {
		c.store(entry, generation, res)
		return res, nil
	}

	clusters, err := c.query.GetClusters(ctx, zoom, nil)
	if err != nil {
		return nil, err
	}

	res := &ClusterResult{
		Clusters:   clusters,
		Source:     domain.ClusterSourceAggregator,
		ComputedAt: time.Now().UTC(),
	}
	if c.store(entry, generation, res) {
		c.saveSnapshot(ctx, zoom, res)
	}

	return res, nil
}

// Refresh пересчитывает кластеры без bbox в обход кэша и заменяет L1 и L2.
// Остальные экземпляры получают событие инвалидации и перечитают снимок.
func (c *ClusterCache) Refresh(ctx context.Context, zoom int) (*ClusterResult, error) {
	clusters, err := c.query.GetClusters(ctx, zoom, nil)
	if err != nil {
		return nil, err
	}

	res := &ClusterResult{
		Clusters:   clusters,
		Source:     domain.ClusterSourceAggregator,
		ComputedAt: time.Now().UTC(),
	}

	if entry := c.entry(zoom); entry != nil {
		entry.mu.Lock()
		entry.generation++
		entry.valid = true
		entry.clusters = res.Clusters
		entry.source = res.Source
		entry.computedAt = res.ComputedAt
		entry.mu.Unlock()
	}
	c.saveSnapshot(ctx, zoom, res)

	if err := c.publish(ctx, &zoom); err != nil {
		c.logger.Warn("Failed to publish cluster refresh event",
			zap.Int("zoom", zoom),
			zap.Error(err))
	}

	c.logger.Info("Cluster cache refreshed",
		zap.Int("zoom", zoom),
		zap.Int("clusters", len(clusters)))

	return res, nil
}

// Invalidate сбрасывает L1 и L2 для zoom уровня и оповещает другие экземпляры
func (c *ClusterCache) Invalidate(ctx context.Context, zoom int) error {
	if err := c.query.ValidateZoom(zoom); err != nil {
		return err
	}

	c.dropLocal(&zoom)
	metrics.ClusterInvalidations.WithLabelValues("zoom", "api").Inc()

	var errs []error
	if c.snapshots != nil {
		if err := c.snapshots.DeleteClusterSnapshot(ctx, zoom); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.publish(ctx, &zoom); err != nil {
		errs = append(errs, err)
	}

	if err := stderrors.Join(errs...); err != nil {
		c.logger.Error("Cluster cache invalidation incomplete",
			zap.Int("zoom", zoom),
			zap.Error(err))
		return errors.ErrCacheError.Wrap(err)
	}

	c.logger.Info("Cluster cache invalidated", zap.Int("zoom", zoom))
	return nil
}

// InvalidateAll сбрасывает кэш всех zoom уровней и оповещает другие экземпляры
func (c *ClusterCache) InvalidateAll(ctx context.Context) error {
	c.dropLocal(nil)
	metrics.ClusterInvalidations.WithLabelValues("all", "api").Inc()

	var errs []error
	if c.snapshots != nil {
		if err := c.snapshots.DeleteAllClusterSnapshots(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.publish(ctx, nil); err != nil {
		errs = append(errs, err)
	}

	if err := stderrors.Join(errs...); err != nil {
		c.logger.Error("Cluster cache invalidation incomplete", zap.Error(err))
		return errors.ErrCacheError.Wrap(err)
	}

	c.logger.Info("Cluster cache invalidated for all zoom levels")
	return nil
}

// InvalidateLocal сбрасывает только L1 (zoom == nil - все уровни).
// Используется обработчиком событий инвалидации.
func (c *ClusterCache) InvalidateLocal(zoom *int) {
	c.dropLocal(zoom)

	scope := "all"
	if zoom != nil {
		scope = "zoom"
	}
	metrics.ClusterInvalidations.WithLabelValues(scope, "stream").Inc()
}

// CachedZoomLevels возвращает zoom уровни, закэшированные в L1
func (c *ClusterCache) CachedZoomLevels() []int {
	c.mu.Lock()
	entries := make(map[int]*clusterEntry, len(c.entries))
	for zoom, entry := range c.entries {
		entries[zoom] = entry
	}
	c.mu.Unlock()

	levels := make([]int, 0, len(entries))
	for zoom, entry := range entries {
		entry.mu.RLock()
		if entry.valid {
			levels = append(levels, zoom)
		}
		entry.mu.RUnlock()
	}
	slices.Sort(levels)
	return levels
}

// Close освобождает L1. После закрытия запросы вычисляются без кэширования.
func (c *ClusterCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.entries = nil
}

// entry находит или создает запись zoom уровня (nil если кэш закрыт)
func (c *ClusterCache) entry(zoom int) *clusterEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	entry, ok := c.entries[zoom]
	if !ok {
		entry = &clusterEntry{}
		c.entries[zoom] = entry
	}
	return entry
}

// store сохраняет результат, если запись не была сброшена во время вычисления
func (c *ClusterCache) store(entry *clusterEntry, generation uint64, res *ClusterResult) bool {
	if entry == nil {
		return false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.generation != generation {
		return false
	}
	entry.valid = true
	entry.clusters = res.Clusters
	entry.source = res.Source
	entry.computedAt = res.ComputedAt
	return true
}

// dropLocal сбрасывает L1 и отвязывает идущие вычисления от singleflight,
// чтобы запросы после инвалидации не получили результат, начатый до нее.
func (c *ClusterCache) dropLocal(zoom *int) {
	c.mu.Lock()
	var entries []*clusterEntry
	for z, entry := range c.entries {
		if zoom == nil || *zoom == z {
			entries = append(entries, entry)
		}
	}
	c.mu.Unlock()

	for _, entry := range entries {
		entry.mu.Lock()
		entry.generation++
		entry.valid = false
		entry.clusters = nil
		entry.mu.Unlock()
	}

	if zoom != nil {
		c.group.Forget(flightKey(*zoom))
		return
	}
	for z := 0; z <= c.query.MaxZoom(); z++ {
		c.group.Forget(flightKey(z))
	}
}

func flightKey(zoom int) string {
	return strconv.Itoa(zoom)
}

func (c *ClusterCache) loadSnapshot(ctx context.Context, zoom int) *ClusterResult {
	if c.snapshots == nil {
		return nil
	}

	snapshot, err := c.snapshots.GetClusterSnapshot(ctx, zoom)
	if err != nil {
		c.logger.Warn("Failed to read cluster snapshot",
			zap.Int("zoom", zoom),
			zap.Error(err))
		return nil
	}
	if snapshot == nil {
		metrics.ClusterCacheMisses.WithLabelValues(metrics.TierL2).Inc()
		return nil
	}

	metrics.ClusterCacheHits.WithLabelValues(metrics.TierL2).Inc()
	c.logger.Debug("Clusters loaded from snapshot",
		zap.Int("zoom", zoom),
		zap.Time("computed_at", snapshot.ComputedAt))

	return &ClusterResult{
		Clusters:   snapshot.Clusters,
		Cached:     true,
		Source:     domain.ClusterSourceSnapshot,
		ComputedAt: snapshot.ComputedAt,
	}
}

func (c *ClusterCache) saveSnapshot(ctx context.Context, zoom int, res *ClusterResult) {
	if c.snapshots == nil {
		return
	}

	snapshot := &domain.ClusterSnapshot{
		ZoomLevel:  zoom,
		Clusters:   res.Clusters,
		ComputedAt: res.ComputedAt,
		Source:     res.Source,
	}
	if err := c.snapshots.SetClusterSnapshot(ctx, snapshot, c.opts.SnapshotTTL); err != nil {
		c.logger.Warn("Failed to store cluster snapshot",
			zap.Int("zoom", zoom),
			zap.Error(err))
	}
}

func (c *ClusterCache) publish(ctx context.Context, zoom *int) error {
	if c.streams == nil {
		return nil
	}

	event := domain.ClusterInvalidateEvent{
		ZoomLevel: zoom,
		Source:    c.opts.InstanceID,
		IssuedAt:  time.Now().UTC(),
	}
	return c.streams.PublishToStream(ctx, domain.StreamClusterInvalidate, event)
}
