package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed *.sql
var MigrationFiles embed.FS

// Migrator применяет встроенные миграции схемы (territories, points)
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New создает мигратор на выделенном соединении из пула.
// Close возвращает соединение в пул, сам пул остается открытым.
func New(ctx context.Context, db *sql.DB, logger *zap.Logger) (*Migrator, error) {
	sourceDriver, err := iofs.New(MigrationFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire migration connection: %w", err)
	}

	dbDriver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		dbDriver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Up применяет все ожидающие миграции
func (mg *Migrator) Up() error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d: fix the schema and run `mapctl migrate force %d`", version, version)
	}

	mg.logger.Info("Running database migrations", zap.Uint("current_version", version))

	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("Database schema is up to date", zap.Uint("version", version))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := mg.Version()
	if err != nil {
		return err
	}

	mg.logger.Info("Database migrations completed",
		zap.Uint("from_version", version),
		zap.Uint("to_version", newVersion),
	)
	return nil
}

// Down откатывает одну миграцию
func (mg *Migrator) Down() error {
	if err := mg.m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	version, _, err := mg.Version()
	if err != nil {
		return err
	}
	mg.logger.Info("Rolled back one migration", zap.Uint("version", version))
	return nil
}

// Force выставляет версию без применения миграций (снятие dirty флага)
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	mg.logger.Warn("Forced migration version", zap.Int("version", version))
	return nil
}

// Version возвращает текущую версию схемы (0 если миграций не было)
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Close освобождает соединение мигратора
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// RunMigrations - короткий путь для старта сервиса и интеграционных тестов
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	mg, err := New(ctx, db, logger)
	if err != nil {
		return err
	}
	defer mg.Close()

	return mg.Up()
}
