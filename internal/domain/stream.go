package domain

import "time"

// Stream names
const (
	StreamClusterInvalidate = "stream:clusters:invalidate"
)

// ClusterInvalidateEvent - событие сброса кэша кластеров.
// ZoomLevel == nil означает все уровни.
type ClusterInvalidateEvent struct {
	ZoomLevel *int      `json:"zoom_level,omitempty"`
	Source    string    `json:"source"`
	IssuedAt  time.Time `json:"issued_at"`
}

// AppliesTo проверяет, затрагивает ли событие zoom уровень
func (e *ClusterInvalidateEvent) AppliesTo(zoom int) bool {
	return e.ZoomLevel == nil || *e.ZoomLevel == zoom
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
