package repository

import (
	"context"
	"time"

	"github.com/map-cluster-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetClusterSnapshot получает снимок кластеров для zoom (nil, nil если нет)
	GetClusterSnapshot(ctx context.Context, zoom int) (*domain.ClusterSnapshot, error)

	// SetClusterSnapshot сохраняет снимок кластеров с TTL
	SetClusterSnapshot(ctx context.Context, snapshot *domain.ClusterSnapshot, ttl time.Duration) error

	// DeleteClusterSnapshot удаляет снимок для zoom
	DeleteClusterSnapshot(ctx context.Context, zoom int) error

	// DeleteAllClusterSnapshots удаляет снимки всех zoom уровней
	DeleteAllClusterSnapshots(ctx context.Context) error

	// GetStats получает статистику из кеша
	GetStats(ctx context.Context) (*domain.Statistics, error)

	// SetStats сохраняет статистику в кеше
	SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error
}
