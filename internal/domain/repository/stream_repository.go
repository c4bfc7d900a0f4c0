package repository

import (
	"context"

	"github.com/map-cluster-service/internal/domain"
)

// StreamRepository - интерфейс для работы с Redis Streams
type StreamRepository interface {
	// Subscribe читает новые сообщения стрима (broadcast, без consumer group)
	Subscribe(ctx context.Context, stream string) (<-chan domain.StreamMessage, error)

	// PublishToStream публикует сообщение в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
