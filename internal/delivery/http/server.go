package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/map-cluster-service/internal/config"
	"github.com/map-cluster-service/internal/delivery/http/handler"
	"github.com/map-cluster-service/internal/delivery/http/middleware"
	"github.com/map-cluster-service/internal/pkg/errors"
	"github.com/map-cluster-service/internal/pkg/metrics"
	"github.com/map-cluster-service/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Handlers - набор обработчиков HTTP API
type Handlers struct {
	Cluster   *handler.ClusterHandler
	Territory *handler.TerritoryHandler
	Point     *handler.PointHandler
	Map       *handler.MapHandler
	Stats     *handler.StatsHandler
	Health    *handler.HealthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Map Cluster Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App возвращает fiber приложение (для тестов)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(metrics.Middleware())
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Prometheus
	s.app.Get("/metrics", metrics.Handler())

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.handlers.Health.Health)

	// Clusters
	api.Get("/clusters", s.handlers.Cluster.GetClusters)

	// Territories
	api.Get("/territories", s.handlers.Territory.List)
	api.Post("/territories", s.handlers.Territory.Create)

	// Points
	api.Get("/points", s.handlers.Point.GetPoints)

	// Initial map state
	api.Get("/map/initial", s.handlers.Map.GetInitial)

	// Stats
	api.Get("/stats", s.handlers.Stats.GetStatistics)

	// Admin
	admin := api.Group("/admin")
	admin.Get("/clusters/cache", s.handlers.Cluster.GetCacheStatus)
	admin.Delete("/clusters/cache", s.handlers.Cluster.InvalidateCache)
	admin.Post("/clusters/cache/warm", s.handlers.Cluster.WarmCache)
	admin.Delete("/clusters/cache/:zoom", s.handlers.Cluster.InvalidateZoom)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if _, ok := errors.As(err); ok {
			return utils.SendError(c, err)
		}

		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			code = fe.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		appErr := errors.ErrInternalServer
		switch {
		case code == fiber.StatusNotFound:
			appErr = errors.New("NOT_FOUND", fe.Message, code)
		case code == fiber.StatusMethodNotAllowed:
			appErr = errors.New("METHOD_NOT_ALLOWED", fe.Message, code)
		case code < fiber.StatusInternalServerError:
			appErr = errors.ErrInvalidRequest.WithMessage(fe.Message)
			appErr.StatusCode = code
		}

		return utils.SendError(c, appErr)
	}
}
