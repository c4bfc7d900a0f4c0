package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/map-cluster-service/internal/pkg/utils"
	"github.com/map-cluster-service/internal/usecase"
	"go.uber.org/zap"
)

// PointHandler - обработчик запросов исходных маркеров
type PointHandler struct {
	pointUC *usecase.PointUseCase
	logger  *zap.Logger
}

// NewPointHandler - создание нового PointHandler
func NewPointHandler(pointUC *usecase.PointUseCase, logger *zap.Logger) *PointHandler {
	return &PointHandler{
		pointUC: pointUC,
		logger:  logger,
	}
}

// GetPoints godoc
// @Summary Точки в границах карты
// @Description Возвращает маркеры внутри bbox. Все четыре границы обязательны.
// @Tags Points
// @Produce json
// @Param min_lat query number true "Минимальная широта"
// @Param min_lon query number true "Минимальная долгота"
// @Param max_lat query number true "Максимальная широта"
// @Param max_lon query number true "Максимальная долгота"
// @Param limit query int false "Максимальное количество точек" default(500)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Point}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/points [get]
func (h *PointHandler) GetPoints(c *fiber.Ctx) error {
	bbox, err := readBBoxQuery(c).parseStrict()
	if err != nil {
		return utils.SendError(c, err)
	}

	limit := c.QueryInt("limit", 0)

	points, err := h.pointUC.PointsInBounds(c.UserContext(), bbox, limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	defaultLimit, _ := h.pointUC.Limits()
	if limit <= 0 {
		limit = defaultLimit
	}

	return utils.SendSuccess(c, points, &utils.Meta{
		Total: len(points),
		Limit: limit,
	})
}
