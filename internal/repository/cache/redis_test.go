package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/map-cluster-service/internal/config"
)

func TestOptions(t *testing.T) {
	opts := Options(&config.RedisConfig{Host: "cache.internal", Port: 6380, Password: "secret", DB: 2})

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, clientName, opts.ClientName)
	assert.Equal(t, dialTimeout, opts.DialTimeout)
	assert.Equal(t, readTimeout, opts.ReadTimeout)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	r, err := NewRedis(&config.RedisConfig{Host: mr.Host(), Port: port}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Health(context.Background()))

	mr.Close()
	err = r.Health(context.Background())
	assert.ErrorContains(t, err, "redis ping")
	require.NoError(t, r.Close())
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	host := mr.Host()
	mr.Close()

	r, err := NewRedis(&config.RedisConfig{Host: host, Port: port}, zap.NewNop())
	assert.Nil(t, r)
	assert.ErrorContains(t, err, "failed to connect to redis at "+host)
}
