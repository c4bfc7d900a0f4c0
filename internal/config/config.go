package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Aggregator backends
const (
	AggregatorPostgres = "postgres"
	AggregatorMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cluster  ClusterConfig
	Points   PointsConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrateOnStart  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type ClusterConfig struct {
	Aggregator     string
	MaxZoom        int
	QueryTimeout   time.Duration
	StrictBBox     bool
	SnapshotTTL    time.Duration
	WarmZoomLevels []int
	WarmInterval   time.Duration
}

type PointsConfig struct {
	DefaultLimit int
	MaxLimit     int
}

type CacheConfig struct {
	StatsCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	StreamReadTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Load читает конфигурацию из .env в рабочей директории и окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom читает конфигурацию из указанного файла и окружения.
// Отсутствие файла не является ошибкой, переменные окружения имеют приоритет.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	warmLevels, err := parseIntList(v.GetString("CLUSTER_WARM_ZOOM_LEVELS"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLUSTER_WARM_ZOOM_LEVELS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			MigrateOnStart:  v.GetBool("DB_MIGRATE_ON_START"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cluster: ClusterConfig{
			Aggregator:     strings.ToLower(strings.TrimSpace(v.GetString("CLUSTER_AGGREGATOR"))),
			MaxZoom:        v.GetInt("CLUSTER_MAX_ZOOM"),
			QueryTimeout:   time.Duration(v.GetInt("CLUSTER_QUERY_TIMEOUT")) * time.Millisecond,
			StrictBBox:     v.GetBool("CLUSTER_STRICT_BBOX"),
			SnapshotTTL:    time.Duration(v.GetInt("CLUSTER_SNAPSHOT_TTL")) * time.Second,
			WarmZoomLevels: warmLevels,
			WarmInterval:   time.Duration(v.GetInt("CLUSTER_WARM_INTERVAL")) * time.Second,
		},
		Points: PointsConfig{
			DefaultLimit: v.GetInt("POINTS_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("POINTS_MAX_LIMIT"),
		},
		Cache: CacheConfig{
			StatsCacheTTL: time.Duration(v.GetInt("STATS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			ShutdownTimeout:   time.Duration(v.GetInt("WORKER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "map_clusters")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("DB_MIGRATE_ON_START", false)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CLUSTER_AGGREGATOR", AggregatorPostgres)
	v.SetDefault("CLUSTER_MAX_ZOOM", 20)
	v.SetDefault("CLUSTER_QUERY_TIMEOUT", 5000)
	v.SetDefault("CLUSTER_STRICT_BBOX", false)
	v.SetDefault("CLUSTER_SNAPSHOT_TTL", 3600)
	v.SetDefault("CLUSTER_WARM_ZOOM_LEVELS", "5")
	v.SetDefault("CLUSTER_WARM_INTERVAL", 300)

	v.SetDefault("POINTS_DEFAULT_LIMIT", 500)
	v.SetDefault("POINTS_MAX_LIMIT", 5000)

	v.SetDefault("STATS_CACHE_TTL", 3600)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 1000)
	v.SetDefault("WORKER_SHUTDOWN_TIMEOUT", 30)
}

func (c *Config) validate() error {
	switch c.Cluster.Aggregator {
	case AggregatorPostgres, AggregatorMemory:
	default:
		return fmt.Errorf("invalid CLUSTER_AGGREGATOR %q: expected %s or %s",
			c.Cluster.Aggregator, AggregatorPostgres, AggregatorMemory)
	}
	if c.Cluster.MaxZoom < 0 || c.Cluster.MaxZoom > 22 {
		return fmt.Errorf("invalid CLUSTER_MAX_ZOOM %d: expected 0..22", c.Cluster.MaxZoom)
	}
	if c.Cluster.QueryTimeout <= 0 {
		return fmt.Errorf("CLUSTER_QUERY_TIMEOUT must be positive")
	}
	for _, z := range c.Cluster.WarmZoomLevels {
		if z < 0 || z > c.Cluster.MaxZoom {
			return fmt.Errorf("warm zoom level %d is outside 0..%d", z, c.Cluster.MaxZoom)
		}
	}
	if c.Points.DefaultLimit <= 0 || c.Points.MaxLimit < c.Points.DefaultLimit {
		return fmt.Errorf("invalid points limits: default=%d max=%d", c.Points.DefaultLimit, c.Points.MaxLimit)
	}
	return nil
}

func parseIntList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetDatabaseURL возвращает DSN в URL форме (для golang-migrate)
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
