package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/map-cluster-service/internal/pkg/errors"
	"github.com/map-cluster-service/internal/pkg/utils"
	"github.com/map-cluster-service/internal/pkg/validator"
	"github.com/map-cluster-service/internal/usecase"
	"github.com/map-cluster-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// TerritoryHandler - обработчик запросов территорий
type TerritoryHandler struct {
	territoryUC *usecase.TerritoryUseCase
	logger      *zap.Logger
}

// NewTerritoryHandler - создание нового TerritoryHandler
func NewTerritoryHandler(territoryUC *usecase.TerritoryUseCase, logger *zap.Logger) *TerritoryHandler {
	return &TerritoryHandler{
		territoryUC: territoryUC,
		logger:      logger,
	}
}

// Create godoc
// @Summary Создание территории
// @Description Сохраняет полигон территории. Кольцо замыкается автоматически, долгота принимается как lon или lng.
// @Tags Territories
// @Accept json
// @Produce json
// @Param request body dto.CreateTerritoryRequest true "Территория"
// @Success 201 {object} utils.SuccessResponse{data=dto.TerritoryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/territories [post]
func (h *TerritoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTerritoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithDetails(validator.Details(err)))
	}

	territory, err := h.territoryUC.Create(c.UserContext(), req.Name, req.Color, req.Ring())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, dto.NewTerritoryResponse(territory))
}

// List godoc
// @Summary Список территорий
// @Description Возвращает все территории или только пересекающие bbox, если заданы все четыре границы
// @Tags Territories
// @Produce json
// @Param min_lat query number false "Минимальная широта"
// @Param min_lon query number false "Минимальная долгота"
// @Param max_lat query number false "Максимальная широта"
// @Param max_lon query number false "Максимальная долгота"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.TerritoryResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/territories [get]
func (h *TerritoryHandler) List(c *fiber.Ctx) error {
	bbox := readBBoxQuery(c).parse()

	territories, err := h.territoryUC.ListWithin(c.UserContext(), bbox)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewTerritoryResponses(territories), &utils.Meta{
		Total: len(territories),
	})
}
