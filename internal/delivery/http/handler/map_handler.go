package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/pkg/utils"
	"github.com/map-cluster-service/internal/usecase"
	"github.com/map-cluster-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// MapHandler отдает данные для первой загрузки карты
type MapHandler struct {
	cache       *usecase.ClusterCache
	territoryUC *usecase.TerritoryUseCase
	logger      *zap.Logger
}

// NewMapHandler создает новый экземпляр MapHandler
func NewMapHandler(cache *usecase.ClusterCache, territoryUC *usecase.TerritoryUseCase, logger *zap.Logger) *MapHandler {
	return &MapHandler{
		cache:       cache,
		territoryUC: territoryUC,
		logger:      logger,
	}
}

// GetInitial godoc
// @Summary Начальное состояние карты
// @Description Кластеры начального zoom уровня без bbox и все территории
// @Tags Map
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.MapInitialResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/map/initial [get]
func (h *MapHandler) GetInitial(c *fiber.Ctx) error {
	ctx := c.UserContext()

	clusters, err := h.cache.GetOrCompute(ctx, domain.InitialMapZoom, nil)
	if err != nil {
		return utils.SendError(c, err)
	}

	territories, err := h.territoryUC.List(ctx)
	if err != nil {
		return utils.SendError(c, err)
	}

	zoom := domain.InitialMapZoom
	return utils.SendSuccess(c, dto.MapInitialResponse{
		InitialZoom: zoom,
		Clusters:    clusters.Clusters,
		Territories: dto.NewTerritoryResponses(territories),
	}, &utils.Meta{
		ZoomLevel: &zoom,
		Cached:    &clusters.Cached,
	})
}
