package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/map-cluster-service/internal/config"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/migrations"
	"github.com/map-cluster-service/internal/pkg/logger"
	"github.com/map-cluster-service/internal/repository/cache"
	"github.com/map-cluster-service/internal/repository/postgres"
	redisRepo "github.com/map-cluster-service/internal/repository/redis"
	"github.com/map-cluster-service/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile    string
	timeout    time.Duration
	zoomLevel  int
	zoomLevels []int
)

var rootCmd = &cobra.Command{
	Use:           "mapctl",
	Short:         "Map cluster service administration",
	Long:          `Schema migrations and cluster cache maintenance for the map cluster service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(mg *migrations.Migrator) error {
			return mg.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last applied migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(mg *migrations.Migrator) error {
			return mg.Down()
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(mg *migrations.Migrator) error {
			version, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		})
	},
}

var migrateForceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Set the schema version without running migrations (clears the dirty flag)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withMigrator(cmd.Context(), func(mg *migrations.Migrator) error {
			return mg.Force(version)
		})
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the shared cluster cache",
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop cluster snapshots and notify running instances",
	Long:  `Without --zoom every zoom level is invalidated.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClusterCache(cmd.Context(), false, func(ctx context.Context, c *usecase.ClusterCache) error {
			if cmd.Flags().Changed("zoom") {
				if err := c.Invalidate(ctx, zoomLevel); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "invalidated zoom %d\n", zoomLevel)
				return nil
			}
			if err := c.InvalidateAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "invalidated all zoom levels")
			return nil
		})
	},
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Recompute clusters for zoom levels and publish fresh snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(zoomLevels) == 0 {
			return fmt.Errorf("at least one --zoom is required")
		}
		return withClusterCache(cmd.Context(), true, func(ctx context.Context, c *usecase.ClusterCache) error {
			for _, zoom := range zoomLevels {
				res, err := c.Refresh(ctx, zoom)
				if err != nil {
					return fmt.Errorf("zoom %d: %w", zoom, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "zoom %d: %d clusters\n", zoom, len(res.Clusters))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", ".env", "Path to the .env config file")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "Command timeout")

	cacheInvalidateCmd.Flags().IntVarP(&zoomLevel, "zoom", "z", 0, "Zoom level to invalidate")
	cacheWarmCmd.Flags().IntSliceVarP(&zoomLevels, "zoom", "z", nil, "Zoom levels to warm (repeatable or comma separated)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd, migrateForceCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd, cacheWarmCmd)
	rootCmd.AddCommand(migrateCmd, cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewWithService(cfg.Log.Level, "mapctl")
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func withMigrator(parent context.Context, fn func(mg *migrations.Migrator) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	mg, err := migrations.New(ctx, db.DB.DB, log)
	if err != nil {
		return err
	}
	defer mg.Close()

	return fn(mg)
}

// withClusterCache собирает ClusterCache поверх общего Redis.
// needDB - нужен ли агрегатор (для прогрева); для инвалидации база не открывается.
func withClusterCache(parent context.Context, needDB bool, fn func(ctx context.Context, c *usecase.ClusterCache) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if !cfg.Redis.Enabled {
		return fmt.Errorf("cluster cache commands require Redis (REDIS_ENABLED=true)")
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var aggregator repository.ClusterAggregator
	if needDB {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		aggregator = postgres.NewClusterRepository(db)
	}

	clusterUC := usecase.NewClusterUseCase(aggregator, cfg.Cluster.MaxZoom, cfg.Cluster.QueryTimeout, log)
	clusterCache := usecase.NewClusterCache(
		clusterUC,
		cache.NewCacheRepository(redisClient),
		redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log),
		usecase.ClusterCacheOptions{
			SnapshotTTL:  cfg.Cluster.SnapshotTTL,
			QueryTimeout: cfg.Cluster.QueryTimeout,
		},
		log,
	)
	defer clusterCache.Close()

	return fn(ctx, clusterCache)
}
