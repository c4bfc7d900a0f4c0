package testhelpers

import (
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/repository/postgres"
)

// NewClusterRepositoryForTest creates a cluster aggregator over the test database
func (tdb *TestDB) NewClusterRepositoryForTest() repository.ClusterAggregator {
	return postgres.NewClusterRepository(postgres.NewDBForTest(tdb.DB, tdb.Logger))
}

// NewTerritoryRepositoryForTest creates a territory repository over the test database
func (tdb *TestDB) NewTerritoryRepositoryForTest() repository.TerritoryRepository {
	return postgres.NewTerritoryRepository(postgres.NewDBForTest(tdb.DB, tdb.Logger))
}

// NewPointRepositoryForTest creates a point repository over the test database
func (tdb *TestDB) NewPointRepositoryForTest() repository.PointRepository {
	return postgres.NewPointRepository(postgres.NewDBForTest(tdb.DB, tdb.Logger))
}
