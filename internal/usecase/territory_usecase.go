package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// TerritoryUseCase обрабатывает бизнес-логику для территорий
type TerritoryUseCase struct {
	repo    repository.TerritoryRepository
	timeout time.Duration
	logger  *zap.Logger
}

// NewTerritoryUseCase создает новый экземпляр TerritoryUseCase
func NewTerritoryUseCase(
	repo repository.TerritoryRepository,
	timeout time.Duration,
	logger *zap.Logger,
) *TerritoryUseCase {
	return &TerritoryUseCase{
		repo:    repo,
		timeout: timeout,
		logger:  logger,
	}
}

// Create проверяет и сохраняет территорию. Кольцо может быть незамкнутым.
func (uc *TerritoryUseCase) Create(ctx context.Context, name, color string, ring []domain.LatLon) (*domain.Territory, error) {
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)

	if name == "" {
		return nil, errors.ErrValidation.
			WithMessage("name is required").
			WithDetails(map[string]interface{}{"field": "name"})
	}
	if color == "" {
		return nil, errors.ErrValidation.
			WithMessage("color is required").
			WithDetails(map[string]interface{}{"field": "color"})
	}
	if len(ring) < 3 {
		return nil, errors.ErrValidation.
			WithMessage("territory requires at least 3 coordinates").
			WithDetails(map[string]interface{}{"field": "coordinates", "count": len(ring)})
	}
	for i, p := range ring {
		if !p.IsFinite() || !p.InRange() {
			return nil, errors.ErrValidation.
				WithMessage(fmt.Sprintf("coordinate %d is out of range", i)).
				WithDetails(map[string]interface{}{"field": "coordinates", "index": i})
		}
	}

	wkt, err := domain.EncodePolygon(ring)
	if err != nil {
		return nil, errors.ErrInvalidGeometry.WithMessage(err.Error()).Wrap(err)
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	territory, err := uc.repo.Insert(ctx, name, color, wkt)
	if err != nil {
		if stderrors.Is(err, domain.ErrInvalidGeometry) {
			uc.logger.Warn("Store rejected territory geometry",
				zap.String("name", name),
				zap.Error(err))
			return nil, errors.ErrInvalidGeometry.WithMessage(err.Error()).Wrap(err)
		}
		uc.logger.Error("Failed to insert territory",
			zap.String("name", name),
			zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	uc.logger.Info("Territory created",
		zap.String("id", territory.ID.String()),
		zap.String("name", territory.Name))

	return territory, nil
}

// List возвращает все территории в порядке создания
func (uc *TerritoryUseCase) List(ctx context.Context) ([]*domain.Territory, error) {
	return uc.ListWithin(ctx, nil)
}

// ListWithin возвращает территории, пересекающие bbox (nil - все)
func (uc *TerritoryUseCase) ListWithin(ctx context.Context, bbox *domain.BoundingBox) ([]*domain.Territory, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	territories, err := uc.repo.Query(ctx, bbox.FilterPredicate())
	if err != nil {
		uc.logger.Error("Failed to query territories",
			zap.Stringer("bbox", bbox),
			zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	uc.logger.Debug("Territories fetched",
		zap.Stringer("bbox", bbox),
		zap.Int("count", len(territories)))

	return territories, nil
}

func (uc *TerritoryUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}
