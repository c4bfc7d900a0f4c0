package main

// @title Map Cluster Service API
// @version 1.0.0
// @description Сервис кластеризации точек на карте и хранения территорий (полигонов) с PostGIS.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/map-cluster-service/docs"
	"github.com/map-cluster-service/internal/config"
	httpDelivery "github.com/map-cluster-service/internal/delivery/http"
	"github.com/map-cluster-service/internal/delivery/http/handler"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/migrations"
	"github.com/map-cluster-service/internal/pkg/logger"
	"github.com/map-cluster-service/internal/repository/cache"
	"github.com/map-cluster-service/internal/repository/memory"
	"github.com/map-cluster-service/internal/repository/postgres"
	redisRepo "github.com/map-cluster-service/internal/repository/redis"
	"github.com/map-cluster-service/internal/usecase"
	"github.com/map-cluster-service/internal/worker"
	"github.com/map-cluster-service/internal/worker/cluster"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.NewWithService(cfg.Log.Level, "map-cluster-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Map Cluster Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("aggregator", cfg.Cluster.Aggregator),
		zap.Int("max_zoom", cfg.Cluster.MaxZoom),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	if cfg.Database.MigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := migrations.RunMigrations(ctx, db.DB.DB, log)
		cancel()
		if err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	healthCheckers := map[string]handler.HealthChecker{"database": db}

	// 4. Connect to Redis (optional: snapshots, stats cache, cross-instance invalidation)
	var (
		cacheRepo  repository.CacheRepository
		streamRepo repository.StreamRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		cacheRepo = cache.NewCacheRepository(redisClient)
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)
		healthCheckers["redis"] = redisClient
	} else {
		log.Warn("Redis disabled: cluster cache is process-local, invalidation is not shared")
	}

	// 5. Initialize Repositories
	territoryRepo := postgres.NewTerritoryRepository(db)
	statsRepo := postgres.NewStatsRepository(db, log)

	var (
		aggregator repository.ClusterAggregator
		pointRepo  repository.PointRepository
	)
	switch cfg.Cluster.Aggregator {
	case config.AggregatorMemory:
		index, err := loadPointIndex(db, log)
		if err != nil {
			log.Fatal("Failed to build in-memory point index", zap.Error(err))
		}
		aggregator = index
		pointRepo = index
	default:
		aggregator = postgres.NewClusterRepository(db)
		pointRepo = postgres.NewPointRepository(db)
	}

	log.Info("Repositories initialized")

	// 6. Initialize Use Cases
	clusterUC := usecase.NewClusterUseCase(aggregator, cfg.Cluster.MaxZoom, cfg.Cluster.QueryTimeout, log)
	clusterCache := usecase.NewClusterCache(clusterUC, cacheRepo, streamRepo, usecase.ClusterCacheOptions{
		SnapshotTTL:  cfg.Cluster.SnapshotTTL,
		QueryTimeout: cfg.Cluster.QueryTimeout,
	}, log)
	defer clusterCache.Close()

	territoryUC := usecase.NewTerritoryUseCase(territoryRepo, cfg.Cluster.QueryTimeout, log)
	pointUC := usecase.NewPointUseCase(pointRepo, cfg.Points.DefaultLimit, cfg.Points.MaxLimit, cfg.Cluster.QueryTimeout, log)
	statsUC := usecase.NewStatsUseCase(statsRepo, cacheRepo, clusterCache, cfg.Cache.StatsCacheTTL, log)

	log.Info("Use cases initialized", zap.String("instance_id", clusterCache.InstanceID()))

	// 7. Background workers
	workerManager := worker.NewWorkerManager(log, cfg.Worker.ShutdownTimeout)
	if cfg.Worker.Enabled {
		if streamRepo != nil {
			workerManager.Register(cluster.NewInvalidationWorker(streamRepo, clusterCache, log))
		}
		if len(cfg.Cluster.WarmZoomLevels) > 0 {
			workerManager.Register(cluster.NewWarmupWorker(clusterCache, cfg.Cluster.WarmZoomLevels, cfg.Cluster.WarmInterval, log))
		}
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if len(workerManager.Names()) > 0 {
		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Cluster:   handler.NewClusterHandler(clusterUC, clusterCache, cfg.Cluster.StrictBBox, log),
		Territory: handler.NewTerritoryHandler(territoryUC, log),
		Point:     handler.NewPointHandler(pointUC, log),
		Map:       handler.NewMapHandler(clusterCache, territoryUC, log),
		Stats:     handler.NewStatsHandler(statsUC, log),
		Health:    handler.NewHealthHandler(healthCheckers, log),
	})

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.Strings("workers", workerManager.Names()),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if len(workerManager.Names()) > 0 {
		if err := workerManager.Stop(); err != nil {
			log.Error("Workers shutdown error", zap.Error(err))
		}
	}
	cancelWorkers()

	log.Info("Server stopped successfully")
}

// loadPointIndex строит R-Tree индекс из всех точек базы
func loadPointIndex(db *postgres.DB, log *zap.Logger) (*memory.PointIndex, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	points, err := postgres.NewPointRepository(db).All(ctx)
	if err != nil {
		return nil, err
	}

	index := memory.NewPointIndex()
	index.Load(points)
	log.Info("In-memory point index loaded", zap.Int("points", index.Size()))
	return index, nil
}
