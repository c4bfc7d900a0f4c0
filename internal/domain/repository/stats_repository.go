package repository

import (
	"context"

	"github.com/map-cluster-service/internal/domain"
)

// StatsRepository интерфейс для работы со статистикой
type StatsRepository interface {
	// GetStatistics возвращает количество точек и территорий
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
