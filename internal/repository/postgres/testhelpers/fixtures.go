package testhelpers

import (
	"context"
	"fmt"

	"github.com/map-cluster-service/internal/domain"
)

// InsertPoints вставляет точки-маркеры
func (tdb *TestDB) InsertPoints(ctx context.Context, points []domain.LatLon) error {
	for i, p := range points {
		_, err := tdb.DB.ExecContext(ctx,
			"INSERT INTO points (name, location) VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326))",
			fmt.Sprintf("point-%d", i), p.Lon, p.Lat,
		)
		if err != nil {
			return fmt.Errorf("insert point %d: %w", i, err)
		}
	}
	return nil
}
