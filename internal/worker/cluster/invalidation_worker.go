package cluster

import (
	"context"
	"encoding/json"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/map-cluster-service/internal/worker"
	"go.uber.org/zap"
)

const (
	// resubscribeDelay - пауза перед повторной подпиской на стрим
	resubscribeDelay = time.Second
)

// LocalInvalidator сбрасывает in-process кэш кластеров
type LocalInvalidator interface {
	InvalidateLocal(zoom *int)
	InstanceID() string
}

// InvalidationWorker применяет события инвалидации от других экземпляров к L1 кэшу
type InvalidationWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	cache      LocalInvalidator
}

// NewInvalidationWorker создает новый InvalidationWorker
func NewInvalidationWorker(
	streamRepo repository.StreamRepository,
	cache LocalInvalidator,
	logger *zap.Logger,
) *InvalidationWorker {
	return &InvalidationWorker{
		BaseWorker: worker.NewBaseWorker("cluster-invalidation", logger),
		streamRepo: streamRepo,
		cache:      cache,
	}
}

// Start запускает воркер
func (w *InvalidationWorker) Start(ctx context.Context) error {
	ctx, cancel := w.Context(ctx)
	defer cancel()

	logger := w.Logger()
	logger.Info("Starting cluster invalidation worker",
		zap.String("stream", domain.StreamClusterInvalidate),
		zap.String("instance_id", w.cache.InstanceID()))

	for {
		msgChan, err := w.streamRepo.Subscribe(ctx, domain.StreamClusterInvalidate)
		if err != nil {
			logger.Error("Failed to subscribe to invalidation stream", zap.Error(err))
			if !w.Wait(ctx, resubscribeDelay) {
				return nil
			}
			continue
		}

		for msg := range msgChan {
			w.processMessage(msg)
		}

		if ctx.Err() != nil {
			logger.Info("Worker stopped")
			return nil
		}

		// события могли быть пропущены, L1 больше не считается актуальным
		logger.Warn("Invalidation stream closed, resubscribing")
		w.cache.InvalidateLocal(nil)
	}
}

// processMessage обрабатывает одно событие инвалидации
func (w *InvalidationWorker) processMessage(msg domain.StreamMessage) {
	logger := w.Logger()

	var event domain.ClusterInvalidateEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Error("Failed to unmarshal invalidation event",
			zap.String("message_id", msg.ID),
			zap.String("raw_data", msg.Data),
			zap.Error(err))
		return
	}

	if event.Source == w.cache.InstanceID() {
		logger.Debug("Skipping own invalidation event", zap.String("message_id", msg.ID))
		return
	}

	w.cache.InvalidateLocal(event.ZoomLevel)

	fields := []zap.Field{
		zap.String("message_id", msg.ID),
		zap.String("source", event.Source),
	}
	if event.ZoomLevel != nil {
		fields = append(fields, zap.Int("zoom", *event.ZoomLevel))
	}
	logger.Info("Cluster cache invalidated by event", fields...)
}
