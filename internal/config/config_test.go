package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, AggregatorPostgres, cfg.Cluster.Aggregator)
	assert.Equal(t, 20, cfg.Cluster.MaxZoom)
	assert.Equal(t, 5*time.Second, cfg.Cluster.QueryTimeout)
	assert.Equal(t, []int{5}, cfg.Cluster.WarmZoomLevels)
	assert.Equal(t, 500, cfg.Points.DefaultLimit)
	assert.Equal(t, 5000, cfg.Points.MaxLimit)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "API_PORT=9090\nCLUSTER_AGGREGATOR=memory\nCLUSTER_WARM_ZOOM_LEVELS=3, 5,7\nDB_USER=maps\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("API_PORT", "9191")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "environment overrides file")
	assert.Equal(t, AggregatorMemory, cfg.Cluster.Aggregator)
	assert.Equal(t, []int{3, 5, 7}, cfg.Cluster.WarmZoomLevels)
	assert.Contains(t, cfg.GetDatabaseDSN(), "user=maps")
	assert.Equal(t, "postgres://maps:@localhost:5432/map_clusters?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoadFrom_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("unknown aggregator", func(t *testing.T) {
		t.Setenv("CLUSTER_AGGREGATOR", "elastic")
		_, err := LoadFrom(missing)
		assert.Error(t, err)
	})

	t.Run("max zoom above hard limit", func(t *testing.T) {
		t.Setenv("CLUSTER_MAX_ZOOM", "23")
		_, err := LoadFrom(missing)
		assert.Error(t, err)
	})

	t.Run("warm zoom outside range", func(t *testing.T) {
		t.Setenv("CLUSTER_WARM_ZOOM_LEVELS", "5,30")
		_, err := LoadFrom(missing)
		assert.Error(t, err)
	})

	t.Run("malformed warm zoom list", func(t *testing.T) {
		t.Setenv("CLUSTER_WARM_ZOOM_LEVELS", "five")
		_, err := LoadFrom(missing)
		assert.Error(t, err)
	})
}
