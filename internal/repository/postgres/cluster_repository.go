package postgres

import (
	"context"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/pkg/metrics"
	"go.uber.org/zap"
)

// ST_SnapToGrid округляет к ближайшему узлу сетки, центроид - среднее точек ячейки
const (
	clusterQueryUnbounded = `
		SELECT COUNT(*) AS count,
		       AVG(ST_Y(location)) AS latitude,
		       AVG(ST_X(location)) AS longitude
		FROM points
		GROUP BY ST_SnapToGrid(location, $1)
		ORDER BY count DESC, latitude ASC, longitude ASC`

	clusterQueryBounded = `
		SELECT COUNT(*) AS count,
		       AVG(ST_Y(location)) AS latitude,
		       AVG(ST_X(location)) AS longitude
		FROM points
		WHERE ST_Intersects(location, ST_GeomFromText($2, 4326))
		GROUP BY ST_SnapToGrid(location, $1)
		ORDER BY count DESC, latitude ASC, longitude ASC`
)

type clusterRepository struct {
	db *DB
}

// NewClusterRepository создает агрегатор кластеров на PostGIS
func NewClusterRepository(db *DB) repository.ClusterAggregator {
	return &clusterRepository{db: db}
}

// AggregateClusters группирует точки по ячейкам сетки zoom уровня
func (r *clusterRepository) AggregateClusters(ctx context.Context, zoom int, bbox *domain.BoundingBox) ([]domain.ClusterRow, error) {
	start := time.Now()
	cellSize := domain.GridCellSize(zoom)

	var (
		rows []domain.ClusterRow
		err  error
	)
	if filter := bbox.FilterPredicate(); filter != nil {
		err = r.db.SelectContext(ctx, &rows, clusterQueryBounded, cellSize, filter.WKT)
	} else {
		err = r.db.SelectContext(ctx, &rows, clusterQueryUnbounded, cellSize)
	}
	metrics.ObserveAggregation(bbox != nil, err, time.Since(start))

	if err != nil {
		r.db.logger.Error("failed to aggregate clusters",
			zap.Int("zoom", zoom),
			zap.Stringer("bbox", bbox),
			zap.Error(err),
		)
		return nil, wrapError("aggregate clusters", err)
	}

	if bbox != nil {
		// AVG по точкам на границе bbox может выйти за нее на ошибку округления
		for i := range rows {
			c := bbox.Clamp(domain.LatLon{Lat: rows[i].Latitude, Lon: rows[i].Longitude})
			rows[i].Latitude, rows[i].Longitude = c.Lat, c.Lon
		}
	}

	r.db.logger.Debug("clusters aggregated",
		zap.Int("zoom", zoom),
		zap.Int("clusters", len(rows)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return rows, nil
}
