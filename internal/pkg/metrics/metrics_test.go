package metrics

import (
	"database/sql"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `mapcluster_http_requests_total{method="GET",path="/ping",status="200"}`)
}

func TestObserveAggregation(t *testing.T) {
	ObserveAggregation(true, errors.New("boom"), 10*time.Millisecond)
	ObserveAggregation(false, nil, time.Millisecond)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(AggregationDuration), 2)
}

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 5.0, testutil.ToFloat64(DBPoolConnsOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBPoolConnsInUse))
	assert.Equal(t, 3.0, testutil.ToFloat64(DBPoolConnsIdle))
}
