package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// PointUseCase - выборка исходных маркеров в границах карты
type PointUseCase struct {
	repo         repository.PointRepository
	defaultLimit int
	maxLimit     int
	timeout      time.Duration
	logger       *zap.Logger
}

// NewPointUseCase создает новый экземпляр PointUseCase
func NewPointUseCase(
	repo repository.PointRepository,
	defaultLimit, maxLimit int,
	timeout time.Duration,
	logger *zap.Logger,
) *PointUseCase {
	if maxLimit <= 0 {
		maxLimit = 5000
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = min(500, maxLimit)
	}
	return &PointUseCase{
		repo:         repo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		timeout:      timeout,
		logger:       logger,
	}
}

// PointsInBounds возвращает точки внутри bbox. bbox обязателен.
// limit <= 0 заменяется значением по умолчанию, больше максимума - ошибка.
func (uc *PointUseCase) PointsInBounds(ctx context.Context, bbox *domain.BoundingBox, limit int) ([]*domain.Point, error) {
	if bbox == nil {
		return nil, errors.ErrInvalidBoundingBox.WithMessage("bounding box is required")
	}
	if err := bbox.Validate(); err != nil {
		return nil, errors.ErrInvalidBoundingBox.WithMessage(err.Error())
	}

	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if limit > uc.maxLimit {
		return nil, errors.ErrValidation.
			WithMessage(fmt.Sprintf("limit must not exceed %d", uc.maxLimit)).
			WithDetails(map[string]interface{}{"field": "limit", "limit": limit})
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	points, err := uc.repo.GetInBBox(ctx, *bbox, limit)
	if err != nil {
		uc.logger.Error("Failed to get points in bbox",
			zap.Stringer("bbox", bbox),
			zap.Int("limit", limit),
			zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	uc.logger.Debug("Points fetched",
		zap.Stringer("bbox", bbox),
		zap.Int("count", len(points)))

	return points, nil
}

// Limits возвращает лимит по умолчанию и максимальный лимит
func (uc *PointUseCase) Limits() (int, int) {
	return uc.defaultLimit, uc.maxLimit
}
