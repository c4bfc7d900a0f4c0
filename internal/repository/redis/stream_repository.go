package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// streamMaxLen - приблизительный предел длины стрима (XADD MAXLEN ~)
	streamMaxLen = 1000
	readBatch    = 10
	defaultBlock = time.Second
	retryDelay   = time.Second
)

type streamRepository struct {
	client *redis.Client
	block  time.Duration
	logger *zap.Logger
}

// NewStreamRepository создает новый экземпляр StreamRepository.
// block - время ожидания одного XREAD (<= 0 - одна секунда).
func NewStreamRepository(client *redis.Client, block time.Duration, logger *zap.Logger) repository.StreamRepository {
	if block <= 0 {
		block = defaultBlock
	}
	return &streamRepository{
		client: client,
		block:  block,
		logger: logger,
	}
}

// Subscribe читает сообщения, опубликованные после вызова.
// Каждый подписчик получает все сообщения (XREAD без consumer group).
func (r *streamRepository) Subscribe(ctx context.Context, stream string) (<-chan domain.StreamMessage, error) {
	lastID, err := r.lastID(ctx, stream)
	if err != nil {
		return nil, err
	}

	msgChan := make(chan domain.StreamMessage, readBatch)

	go func() {
		defer close(msgChan)

		for {
			if ctx.Err() != nil {
				r.logger.Info("Stream subscriber stopped", zap.String("stream", stream))
				return
			}

			result, err := r.client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{stream, lastID},
				Count:   readBatch,
				Block:   r.block,
			}).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				r.logger.Error("Failed to read from stream",
					zap.String("stream", stream),
					zap.Error(err))

				select {
				case <-time.After(retryDelay):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, s := range result {
				for _, msg := range s.Messages {
					lastID = msg.ID

					data, ok := msg.Values["data"].(string)
					if !ok {
						r.logger.Warn("Message does not contain 'data' field",
							zap.String("message_id", msg.ID))
						continue
					}

					select {
					case msgChan <- domain.StreamMessage{ID: msg.ID, Data: data}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	r.logger.Info("Subscribed to stream",
		zap.String("stream", stream),
		zap.String("from_id", lastID))

	return msgChan, nil
}

// PublishToStream публикует сообщение в стрим
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error("Failed to marshal data",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	result, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", result))
	return nil
}

// lastID возвращает ID последнего сообщения стрима ("0-0" для пустого)
func (r *streamRepository) lastID(ctx context.Context, stream string) (string, error) {
	msgs, err := r.client.XRevRangeN(ctx, stream, "+", "-", 1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("Failed to read stream tail",
			zap.String("stream", stream),
			zap.Error(err))
		return "", fmt.Errorf("failed to read stream tail: %w", err)
	}
	if len(msgs) == 0 {
		return "0-0", nil
	}
	return msgs[0].ID, nil
}
