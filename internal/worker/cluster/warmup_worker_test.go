package cluster_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/usecase"
	"github.com/map-cluster-service/internal/worker/cluster"
)

type fakeRefresher struct {
	mu      sync.Mutex
	zooms   []int
	failing map[int]bool
}

func (f *fakeRefresher) Refresh(ctx context.Context, zoom int) (*usecase.ClusterResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.zooms = append(f.zooms, zoom)
	if f.failing[zoom] {
		return nil, errors.New("aggregation failed")
	}
	return &usecase.ClusterResult{
		Clusters: []domain.Cluster{{Count: 1, ZoomLevel: zoom}},
		Source:   domain.ClusterSourceAggregator,
	}, nil
}

func (f *fakeRefresher) refreshed() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.zooms...)
}

func TestWarmupWorker_WarmOnce(t *testing.T) {
	refresher := &fakeRefresher{failing: map[int]bool{7: true}}
	w := cluster.NewWarmupWorker(refresher, []int{5, 7, 9}, 0, zap.NewNop())

	err := w.WarmOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "zoom 7")
	assert.Equal(t, []int{5, 7, 9}, refresher.refreshed())
}

func TestWarmupWorker_StartWarmsOnceWithoutInterval(t *testing.T) {
	refresher := &fakeRefresher{}
	w := cluster.NewWarmupWorker(refresher, []int{5}, 0, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	require.Eventually(t, func() bool {
		return len(refresher.refreshed()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, []int{5}, refresher.refreshed())
}

func TestWarmupWorker_PeriodicRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	w := cluster.NewWarmupWorker(refresher, []int{3, 5}, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(refresher.refreshed()) >= 6
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
