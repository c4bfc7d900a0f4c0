package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/pkg/errors"
	"github.com/map-cluster-service/internal/pkg/utils"
	"github.com/map-cluster-service/internal/pkg/validator"
	"github.com/map-cluster-service/internal/usecase"
	"github.com/map-cluster-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// ClusterHandler обрабатывает запросы кластеров и управление их кэшем
type ClusterHandler struct {
	clusterUC  *usecase.ClusterUseCase
	cache      *usecase.ClusterCache
	strictBBox bool
	logger     *zap.Logger
}

// NewClusterHandler создает новый экземпляр ClusterHandler
func NewClusterHandler(
	clusterUC *usecase.ClusterUseCase,
	cache *usecase.ClusterCache,
	strictBBox bool,
	logger *zap.Logger,
) *ClusterHandler {
	return &ClusterHandler{
		clusterUC:  clusterUC,
		cache:      cache,
		strictBBox: strictBBox,
		logger:     logger,
	}
}

// GetClusters godoc
// @Summary Кластеры точек для zoom уровня
// @Description Возвращает агрегированные по сетке кластеры. Без bbox результат кэшируется по zoom уровню.
// @Tags Clusters
// @Produce json
// @Param zoom query int false "Zoom уровень (0..20)" default(10)
// @Param min_lat query number false "Минимальная широта"
// @Param min_lon query number false "Минимальная долгота"
// @Param max_lat query number false "Максимальная широта"
// @Param max_lon query number false "Максимальная долгота"
// @Success 200 {object} utils.SuccessResponse{data=dto.ClusterResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/clusters [get]
func (h *ClusterHandler) GetClusters(c *fiber.Ctx) error {
	start := time.Now()
	zoom := parseZoom(c)

	bbox, err := h.clusterBBox(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.cache.GetOrCompute(c.UserContext(), zoom, bbox)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ClusterResponse{
		ZoomLevel:  zoom,
		Bounds:     bbox,
		Clusters:   result.Clusters,
		Source:     result.Source,
		ComputedAt: result.ComputedAt,
	}, &utils.Meta{
		Total:     len(result.Clusters),
		ZoomLevel: &zoom,
		Cached:    &result.Cached,
		TimeMSec:  float64(time.Since(start).Microseconds()) / 1000,
	})
}

// clusterBBox разбирает bbox запроса кластеров.
// Отсутствующие границы берутся от мира, bbox всего мира равен запросу без bbox.
func (h *ClusterHandler) clusterBBox(c *fiber.Ctx) (*domain.BoundingBox, error) {
	q := readBBoxQuery(c)
	if q.present == 0 {
		return nil, nil
	}

	var bbox *domain.BoundingBox
	if h.strictBBox {
		if q.invalid > 0 {
			return q.parseStrict()
		}
		box, err := q.withWorldDefaults().parseStrict()
		if err != nil {
			return nil, err
		}
		bbox = box
	} else {
		bbox = q.withWorldDefaults().parse()
	}

	if bbox != nil && bbox.CoversWorld() {
		return nil, nil
	}
	return bbox, nil
}

// GetCacheStatus godoc
// @Summary Состояние кэша кластеров
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ClusterCacheStatusResponse}
// @Router /api/v1/admin/clusters/cache [get]
func (h *ClusterHandler) GetCacheStatus(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.ClusterCacheStatusResponse{
		InstanceID:       h.cache.InstanceID(),
		MaxZoom:          h.clusterUC.MaxZoom(),
		CachedZoomLevels: h.cache.CachedZoomLevels(),
	}, nil)
}

// InvalidateCache godoc
// @Summary Сброс кэша кластеров всех zoom уровней
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ClusterCacheInvalidateResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/admin/clusters/cache [delete]
func (h *ClusterHandler) InvalidateCache(c *fiber.Ctx) error {
	if err := h.cache.InvalidateAll(c.UserContext()); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ClusterCacheInvalidateResponse{Scope: "all"}, nil)
}

// InvalidateZoom godoc
// @Summary Сброс кэша кластеров одного zoom уровня
// @Tags Admin
// @Produce json
// @Param zoom path int true "Zoom уровень"
// @Success 200 {object} utils.SuccessResponse{data=dto.ClusterCacheInvalidateResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/admin/clusters/cache/{zoom} [delete]
func (h *ClusterHandler) InvalidateZoom(c *fiber.Ctx) error {
	zoom, err := c.ParamsInt("zoom")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidZoom.WithMessage("zoom must be an integer"))
	}

	if err := h.cache.Invalidate(c.UserContext(), zoom); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ClusterCacheInvalidateResponse{Scope: "zoom", ZoomLevel: &zoom}, nil)
}

// WarmCache godoc
// @Summary Прогрев кэша кластеров
// @Description Пересчитывает кластеры без bbox для указанных zoom уровней и сохраняет их в кэше
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.WarmClustersRequest true "Zoom уровни"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ClusterWarmResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/admin/clusters/cache/warm [post]
func (h *ClusterHandler) WarmCache(c *fiber.Ctx) error {
	var req dto.WarmClustersRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithDetails(validator.Details(err)))
	}

	warmed := make([]dto.ClusterWarmResponse, 0, len(req.ZoomLevels))
	for _, zoom := range req.ZoomLevels {
		res, err := h.cache.Refresh(c.UserContext(), zoom)
		if err != nil {
			h.logger.Error("Failed to warm cluster cache", zap.Int("zoom", zoom), zap.Error(err))
			return utils.SendError(c, err)
		}
		warmed = append(warmed, dto.ClusterWarmResponse{ZoomLevel: zoom, Clusters: len(res.Clusters)})
	}

	return utils.SendSuccess(c, warmed, &utils.Meta{Total: len(warmed)})
}
