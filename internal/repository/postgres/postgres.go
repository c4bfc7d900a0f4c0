package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/map-cluster-service/internal/config"
	"github.com/map-cluster-service/internal/pkg/metrics"
	"go.uber.org/zap"
)

const (
	// applicationName виден в pg_stat_activity
	applicationName = "map-cluster-service"
	connectTimeout  = 5 * time.Second
)

// DB - пул соединений PostGIS, общий для репозиториев точек, кластеров и территорий
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// DSN собирает URL подключения. Значения экранируются, поэтому пароль
// может содержать пробелы и спецсимволы.
func DSN(cfg *config.DatabaseConfig) string {
	query := url.Values{}
	query.Set("sslmode", cfg.SSLMode)
	query.Set("application_name", applicationName)
	query.Set("connect_timeout", strconv.Itoa(int(connectTimeout.Seconds())))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// New открывает пул и проверяет соединение
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Open("pgx", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s@%s:%d: %w", cfg.DBName, cfg.Host, cfg.Port, err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return &DB{DB: db, logger: logger}, nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing PostgreSQL connection")
	return db.DB.Close()
}

// Health пингует базу и обновляет метрики пула
func (db *DB) Health(ctx context.Context) error {
	metrics.UpdateDBPoolMetrics(db.Stats())
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// NewDBForTest оборачивает готовое соединение (sqlmock, testcontainers)
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		logger: logger,
	}
}
