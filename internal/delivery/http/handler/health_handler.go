package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/map-cluster-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker - зависимость, умеющая проверять свое состояние
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler проверяет состояние зависимостей сервиса
type HealthHandler struct {
	checkers map[string]HealthChecker
	logger   *zap.Logger
}

// NewHealthHandler создает HealthHandler. Ключ checkers - имя сервиса в ответе.
func NewHealthHandler(checkers map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		logger:   logger,
	}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.checkers[name].Health(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
			resp.Status = "unhealthy"
			resp.Services[name] = "unhealthy"
			continue
		}
		resp.Services[name] = "healthy"
	}

	status := fiber.StatusOK
	if resp.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
