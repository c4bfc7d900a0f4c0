package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/map-cluster-service/internal/domain"
)

const (
	pgCodeCheckViolation = "23514"
	pgCodeNotNull        = "23502"
	pgCodeInternal       = "XX000"
)

// wrapError добавляет контекст операции и помечает отказы PostGIS
// по геометрии как domain.ErrInvalidGeometry
func wrapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgCodeCheckViolation || pgErr.Code == pgCodeNotNull:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidGeometry, pgErr.Message)
		case pgErr.Code == pgCodeInternal && strings.Contains(strings.ToLower(pgErr.Message), "geometry"):
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidGeometry, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
