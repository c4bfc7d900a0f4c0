package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/map-cluster-service/internal/domain"
)

// MockClusterAggregator - мок агрегатора кластеров
type MockClusterAggregator struct {
	mock.Mock
}

func (m *MockClusterAggregator) AggregateClusters(ctx context.Context, zoom int, bbox *domain.BoundingBox) ([]domain.ClusterRow, error) {
	args := m.Called(ctx, zoom, bbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClusterRow), args.Error(1)
}

// MockTerritoryRepository - мок хранилища территорий
type MockTerritoryRepository struct {
	mock.Mock
}

func (m *MockTerritoryRepository) Insert(ctx context.Context, name, color, geometry string) (*domain.Territory, error) {
	args := m.Called(ctx, name, color, geometry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Territory), args.Error(1)
}

func (m *MockTerritoryRepository) Query(ctx context.Context, filter *domain.ContainmentFilter) ([]*domain.Territory, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Territory), args.Error(1)
}

// MockPointRepository - мок хранилища точек
type MockPointRepository struct {
	mock.Mock
}

func (m *MockPointRepository) GetInBBox(ctx context.Context, bbox domain.BoundingBox, limit int) ([]*domain.Point, error) {
	args := m.Called(ctx, bbox, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Point), args.Error(1)
}

func (m *MockPointRepository) All(ctx context.Context) ([]*domain.Point, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Point), args.Error(1)
}

// MockStatsRepository - мок статистики
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

// MockStreamRepository - мок Redis Streams
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) Subscribe(ctx context.Context, stream string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockCacheRepository - мок кэша
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetClusterSnapshot(ctx context.Context, zoom int) (*domain.ClusterSnapshot, error) {
	args := m.Called(ctx, zoom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClusterSnapshot), args.Error(1)
}

func (m *MockCacheRepository) SetClusterSnapshot(ctx context.Context, snapshot *domain.ClusterSnapshot, ttl time.Duration) error {
	args := m.Called(ctx, snapshot, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteClusterSnapshot(ctx context.Context, zoom int) error {
	args := m.Called(ctx, zoom)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteAllClusterSnapshots(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *MockCacheRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}
