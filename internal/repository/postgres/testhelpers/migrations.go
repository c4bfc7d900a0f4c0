package testhelpers

import (
	"context"

	"github.com/map-cluster-service/internal/migrations"
)

// ApplyMigrations применяет встроенные миграции к тестовой базе
func (tdb *TestDB) ApplyMigrations(ctx context.Context) error {
	return migrations.RunMigrations(ctx, tdb.DB.DB, tdb.Logger)
}
