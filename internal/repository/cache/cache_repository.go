package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	clusterSnapshotPrefix = "clusters:zoom:"
	statsKey              = "stats:current"
	scanBatch             = 100
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// ClusterSnapshotKey возвращает ключ снимка кластеров для zoom
func ClusterSnapshotKey(zoom int) string {
	return fmt.Sprintf("%s%d", clusterSnapshotPrefix, zoom)
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// GetClusterSnapshot получает снимок кластеров (nil, nil при промахе)
func (r *cacheRepository) GetClusterSnapshot(ctx context.Context, zoom int) (*domain.ClusterSnapshot, error) {
	data, err := r.Get(ctx, ClusterSnapshotKey(zoom))
	if err != nil || data == nil {
		return nil, err
	}

	var snapshot domain.ClusterSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		r.logger.Error("Failed to unmarshal cluster snapshot", zap.Int("zoom", zoom), zap.Error(err))
		return nil, fmt.Errorf("unmarshal cluster snapshot: %w", err)
	}
	if snapshot.ZoomLevel != zoom {
		return nil, fmt.Errorf("cluster snapshot zoom mismatch: key %d, payload %d", zoom, snapshot.ZoomLevel)
	}

	return &snapshot, nil
}

// SetClusterSnapshot сохраняет снимок кластеров
func (r *cacheRepository) SetClusterSnapshot(ctx context.Context, snapshot *domain.ClusterSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error("Failed to marshal cluster snapshot", zap.Error(err))
		return fmt.Errorf("marshal cluster snapshot: %w", err)
	}

	return r.Set(ctx, ClusterSnapshotKey(snapshot.ZoomLevel), data, ttl)
}

// DeleteClusterSnapshot удаляет снимок для zoom
func (r *cacheRepository) DeleteClusterSnapshot(ctx context.Context, zoom int) error {
	return r.Delete(ctx, ClusterSnapshotKey(zoom))
}

// DeleteAllClusterSnapshots удаляет снимки всех zoom уровней через SCAN
func (r *cacheRepository) DeleteAllClusterSnapshots(ctx context.Context) error {
	var deleted int
	iter := r.client.Scan(ctx, 0, clusterSnapshotPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Error("Failed to delete cluster snapshot", zap.String("key", iter.Val()), zap.Error(err))
			return fmt.Errorf("cache delete error: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to scan cluster snapshots", zap.Error(err))
		return fmt.Errorf("cache scan error: %w", err)
	}

	r.logger.Debug("Cluster snapshots deleted", zap.Int("count", deleted))
	return nil
}

// GetStats получает статистику из кеша
func (r *cacheRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	data, err := r.Get(ctx, statsKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var stats domain.Statistics
	if err := json.Unmarshal(data, &stats); err != nil {
		r.logger.Error("Failed to unmarshal stats from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}

	return &stats, nil
}

// SetStats сохраняет статистику в кеше
func (r *cacheRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		r.logger.Error("Failed to marshal stats", zap.Error(err))
		return fmt.Errorf("marshal stats: %w", err)
	}

	return r.Set(ctx, statsKey, data, ttl)
}
