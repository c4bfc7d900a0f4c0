package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/map-cluster-service/internal/config"
	httpDelivery "github.com/map-cluster-service/internal/delivery/http"
	"github.com/map-cluster-service/internal/delivery/http/handler"
	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/repository/memory"
	"github.com/map-cluster-service/internal/usecase"
)

type staticStats struct {
	stats *domain.Statistics
}

func (s staticStats) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	cp := *s.stats
	return &cp, nil
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

type testServer struct {
	server *httpDelivery.Server
	cache  *usecase.ClusterCache
}

func newTestServer(t *testing.T, strictBBox bool, health handler.HealthChecker) *testServer {
	t.Helper()
	logger := zap.NewNop()

	index := memory.NewPointIndex()
	index.Load([]*domain.Point{
		{ID: 1, Latitude: 40.0, Longitude: -75.0},
		{ID: 2, Latitude: 40.2, Longitude: -75.2},
		{ID: 3, Latitude: 40.4, Longitude: -74.9},
		{ID: 4, Latitude: 34.0, Longitude: -118.0},
		{ID: 5, Latitude: 41.88, Longitude: -87.63},
	})

	clusterUC := usecase.NewClusterUseCase(index, domain.MaxZoom, time.Second, logger)
	cache := usecase.NewClusterCache(clusterUC, nil, nil, usecase.ClusterCacheOptions{InstanceID: "test"}, logger)
	t.Cleanup(cache.Close)

	territoryUC := usecase.NewTerritoryUseCase(memory.NewTerritoryRepository(), time.Second, logger)
	pointUC := usecase.NewPointUseCase(index, 500, 5000, time.Second, logger)
	statsUC := usecase.NewStatsUseCase(staticStats{stats: &domain.Statistics{Points: 5}}, nil, cache, time.Minute, logger)

	cfg := &config.Config{Server: config.ServerConfig{CORSOrigins: "*"}}
	server := httpDelivery.NewServer(cfg, logger, httpDelivery.Handlers{
		Cluster:   handler.NewClusterHandler(clusterUC, cache, strictBBox, logger),
		Territory: handler.NewTerritoryHandler(territoryUC, logger),
		Point:     handler.NewPointHandler(pointUC, logger),
		Map:       handler.NewMapHandler(cache, territoryUC, logger),
		Stats:     handler.NewStatsHandler(statsUC, logger),
		Health:    handler.NewHealthHandler(map[string]handler.HealthChecker{"database": health}, logger),
	})

	return &testServer{server: server, cache: cache}
}

func healthy() handler.HealthChecker {
	return healthFunc(func(ctx context.Context) error { return nil })
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "data is an object: %v", body)
	return d
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestClusters_UnboundedIsCached(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "GET", "/api/v1/clusters?zoom=5", nil)
	require.Equal(t, 200, status)

	clusters := data(t, body)["clusters"].([]interface{})
	require.Len(t, clusters, 3)
	first := clusters[0].(map[string]interface{})
	assert.Equal(t, 3.0, first["count"])
	assert.Equal(t, 5.0, first["zoom_level"])
	assert.Equal(t, false, body["meta"].(map[string]interface{})["cached"])

	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=5", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, true, body["meta"].(map[string]interface{})["cached"])
	assert.Equal(t, []int{5}, s.cache.CachedZoomLevels())
}

func TestClusters_ZoomHandling(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "GET", "/api/v1/clusters", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, 10.0, data(t, body)["zoom_level"])

	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=abc", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, 10.0, data(t, body)["zoom_level"])

	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=21", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_ZOOM", errorCode(body))

	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=-1", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_ZOOM", errorCode(body))
}

func TestClusters_Bounded(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "GET", "/api/v1/clusters?zoom=5&min_lat=30&min_lon=-80&max_lat=45&max_lon=-70", nil)
	require.Equal(t, 200, status)

	d := data(t, body)
	require.NotNil(t, d["bounds"])
	clusters := d["clusters"].([]interface{})
	require.Len(t, clusters, 1)
	assert.Equal(t, 3.0, clusters[0].(map[string]interface{})["count"])
	assert.Empty(t, s.cache.CachedZoomLevels())

	// camelCase алиасы
	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=5&minLat=30&minLon=-80&maxLat=45&maxLon=-70", nil)
	require.Equal(t, 200, status)
	assert.Len(t, data(t, body)["clusters"], 1)
}

func TestClusters_PartialAndWorldBoxes(t *testing.T) {
	s := newTestServer(t, false, healthy())

	// отсутствующие границы берутся от мира
	status, body := s.do(t, "GET", "/api/v1/clusters?zoom=5&max_lat=38", nil)
	require.Equal(t, 200, status)
	clusters := data(t, body)["clusters"].([]interface{})
	require.Len(t, clusters, 1)
	assert.Equal(t, 34.0, clusters[0].(map[string]interface{})["latitude"])

	// bbox всего мира равен запросу без bbox и кэшируется
	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=5&min_lat=-90&min_lon=-180&max_lat=90&max_lon=180", nil)
	require.Equal(t, 200, status)
	assert.Nil(t, data(t, body)["bounds"])
	assert.Equal(t, []int{5}, s.cache.CachedZoomLevels())

	// инвертированный bbox деградирует до запроса без bbox
	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=5&min_lat=45&min_lon=-80&max_lat=30&max_lon=-70", nil)
	require.Equal(t, 200, status)
	assert.Len(t, data(t, body)["clusters"], 3)
}

func TestClusters_StrictBBox(t *testing.T) {
	s := newTestServer(t, true, healthy())

	status, body := s.do(t, "GET", "/api/v1/clusters?zoom=5&min_lat=45&min_lon=-80&max_lat=30&max_lon=-70", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_BOUNDING_BOX", errorCode(body))

	status, body = s.do(t, "GET", "/api/v1/clusters?zoom=5&min_lat=abc", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_BOUNDING_BOX", errorCode(body))

	status, _ = s.do(t, "GET", "/api/v1/clusters?zoom=5&min_lat=30&min_lon=-80&max_lat=45&max_lon=-70", nil)
	assert.Equal(t, 200, status)
}

func TestTerritories_CreateAndList(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "POST", "/api/v1/territories", map[string]interface{}{
		"name":  "Downtown",
		"color": "#ff0000",
		"coordinates": []map[string]float64{
			{"lat": 40, "lon": -75},
			{"lat": 41, "lon": -75},
			{"lat": 41, "lng": -74},
		},
	})
	require.Equal(t, 201, status, body)

	created := data(t, body)
	assert.Equal(t, "Downtown", created["name"])
	assert.Equal(t, "POLYGON((-75 40,-75 41,-74 41,-75 40))", created["wkt"])
	assert.NotEmpty(t, created["id"])
	assert.Len(t, created["coordinates"], 4)
	assert.Equal(t, "Polygon", created["geometry"].(map[string]interface{})["type"])

	status, body = s.do(t, "POST", "/api/v1/territories", map[string]interface{}{
		"name":  "West",
		"color": "#00ff00",
		"coordinates": []map[string]float64{
			{"lat": 34, "lon": -119},
			{"lat": 35, "lon": -119},
			{"lat": 35, "lon": -118},
		},
	})
	require.Equal(t, 201, status, body)

	status, body = s.do(t, "GET", "/api/v1/territories", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"], 2)

	status, body = s.do(t, "GET", "/api/v1/territories?min_lat=39&min_lon=-80&max_lat=42&max_lon=-70", nil)
	require.Equal(t, 200, status)
	list := body["data"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Downtown", list[0].(map[string]interface{})["name"])

	// неполный bbox не фильтрует
	status, body = s.do(t, "GET", "/api/v1/territories?min_lat=39", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"], 2)
}

func TestTerritories_CreateValidation(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "POST", "/api/v1/territories", map[string]interface{}{
		"name":        "Downtown",
		"color":       "#ff0000",
		"coordinates": []map[string]float64{{"lat": 40, "lon": -75}, {"lat": 41, "lon": -75}},
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))

	status, body = s.do(t, "POST", "/api/v1/territories", map[string]interface{}{
		"name":  "  ",
		"color": "#ff0000",
		"coordinates": []map[string]float64{
			{"lat": 40, "lon": -75}, {"lat": 41, "lon": -75}, {"lat": 41, "lon": -74},
		},
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))

	status, body = s.do(t, "POST", "/api/v1/territories", map[string]interface{}{
		"name":  "Line",
		"color": "#ff0000",
		"coordinates": []map[string]float64{
			{"lat": 40, "lon": -75}, {"lat": 40, "lon": -75}, {"lat": 41, "lon": -74},
		},
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_GEOMETRY", errorCode(body))

	status, body = s.do(t, "POST", "/api/v1/territories", "{not json")
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_REQUEST", errorCode(body))
}

func TestPoints(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "GET", "/api/v1/points?min_lat=39&min_lon=-76&max_lat=41&max_lon=-74&limit=2", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, 2.0, body["meta"].(map[string]interface{})["limit"])

	status, body = s.do(t, "GET", "/api/v1/points?min_lat=39&min_lon=-76", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_BOUNDING_BOX", errorCode(body))

	status, body = s.do(t, "GET", "/api/v1/points?min_lat=39&min_lon=-76&max_lat=41&max_lon=-74&limit=9000", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))
}

func TestMapInitial(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "GET", "/api/v1/map/initial", nil)
	require.Equal(t, 200, status)

	d := data(t, body)
	assert.Equal(t, 5.0, d["initial_zoom"])
	assert.Len(t, d["clusters"], 3)
	assert.Empty(t, d["territories"])
	assert.Equal(t, []int{domain.InitialMapZoom}, s.cache.CachedZoomLevels())
}

func TestAdminClusterCache(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, _ := s.do(t, "GET", "/api/v1/clusters?zoom=3", nil)
	require.Equal(t, 200, status)
	status, _ = s.do(t, "GET", "/api/v1/clusters?zoom=5", nil)
	require.Equal(t, 200, status)

	status, body := s.do(t, "GET", "/api/v1/admin/clusters/cache", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, []interface{}{3.0, 5.0}, data(t, body)["cached_zoom_levels"])
	assert.Equal(t, "test", data(t, body)["instance_id"])

	status, _ = s.do(t, "DELETE", "/api/v1/admin/clusters/cache/3", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, []int{5}, s.cache.CachedZoomLevels())

	status, body = s.do(t, "DELETE", "/api/v1/admin/clusters/cache/99", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_ZOOM", errorCode(body))

	status, _ = s.do(t, "DELETE", "/api/v1/admin/clusters/cache", nil)
	require.Equal(t, 200, status)
	assert.Empty(t, s.cache.CachedZoomLevels())

	status, body = s.do(t, "POST", "/api/v1/admin/clusters/cache/warm", map[string]interface{}{"zoom_levels": []int{4, 6}})
	require.Equal(t, 200, status, body)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, []int{4, 6}, s.cache.CachedZoomLevels())

	status, body = s.do(t, "POST", "/api/v1/admin/clusters/cache/warm", map[string]interface{}{"zoom_levels": []int{}})
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))
}

func TestStats(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "GET", "/api/v1/stats", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, 5.0, data(t, body)["points"])
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t, false, healthy())

	status, body := s.do(t, "GET", "/api/v1/health", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = s.do(t, "GET", "/api/v1/nope", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	down := newTestServer(t, false, healthFunc(func(ctx context.Context) error { return errors.New("down") }))
	status, body = down.do(t, "GET", "/api/v1/health", nil)
	assert.Equal(t, 503, status)
	assert.Equal(t, "unhealthy", body["status"])
}
