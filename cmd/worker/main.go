package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/map-cluster-service/internal/config"
	"github.com/map-cluster-service/internal/pkg/logger"
	"github.com/map-cluster-service/internal/repository/cache"
	"github.com/map-cluster-service/internal/repository/postgres"
	redisRepo "github.com/map-cluster-service/internal/repository/redis"
	"github.com/map-cluster-service/internal/usecase"
	"github.com/map-cluster-service/internal/worker"
	"github.com/map-cluster-service/internal/worker/cluster"
	"go.uber.org/zap"
)

// Отдельный процесс прогрева: пересчитывает кластеры, пишет снимки в Redis
// и публикует события, по которым API экземпляры сбрасывают L1 кэш.
func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}
	if !cfg.Redis.Enabled {
		fmt.Println("Warmup worker requires Redis. Set REDIS_ENABLED=true.")
		os.Exit(1)
	}
	if len(cfg.Cluster.WarmZoomLevels) == 0 {
		fmt.Println("No zoom levels to warm. Set CLUSTER_WARM_ZOOM_LEVELS.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.NewWithService(cfg.Log.Level, "map-cluster-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Cluster Warmup Worker",
		zap.Ints("zoom_levels", cfg.Cluster.WarmZoomLevels),
		zap.Duration("interval", cfg.Cluster.WarmInterval))

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

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and use cases
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)

	clusterUC := usecase.NewClusterUseCase(
		postgres.NewClusterRepository(db),
		cfg.Cluster.MaxZoom,
		cfg.Cluster.QueryTimeout,
		log,
	)
	clusterCache := usecase.NewClusterCache(clusterUC, cacheRepo, streamRepo, usecase.ClusterCacheOptions{
		SnapshotTTL:  cfg.Cluster.SnapshotTTL,
		QueryTimeout: cfg.Cluster.QueryTimeout,
	}, log)
	defer clusterCache.Close()

	// 6. Initialize workers
	manager := worker.NewWorkerManager(log, cfg.Worker.ShutdownTimeout)
	manager.Register(cluster.NewWarmupWorker(clusterCache, cfg.Cluster.WarmZoomLevels, cfg.Cluster.WarmInterval, log))

	// 7. Start workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	log.Info("Worker started successfully", zap.String("instance_id", clusterCache.InstanceID()))

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker gracefully...")

	if err := manager.Stop(); err != nil {
		log.Error("Worker shutdown error", zap.Error(err))
	}
	cancel()

	log.Info("Worker stopped successfully")
}
