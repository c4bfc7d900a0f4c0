//go:build ignore

// Публикует событие инвалидации кэша кластеров в Redis Stream.
//
//	go run scripts/test_publish.go -zoom 5
//	go run scripts/test_publish.go            # все zoom уровни
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type ClusterInvalidateEvent struct {
	ZoomLevel *int      `json:"zoom_level,omitempty"`
	Source    string    `json:"source"`
	IssuedAt  time.Time `json:"issued_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	stream := flag.String("stream", "stream:clusters:invalidate", "Invalidation stream name")
	zoom := flag.Int("zoom", -1, "Zoom level to invalidate (-1 = all)")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := ClusterInvalidateEvent{
		Source:   "test-publish",
		IssuedAt: time.Now().UTC(),
	}
	if *zoom >= 0 {
		event.ZoomLevel = zoom
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: *stream,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish: %v", err)
	}

	fmt.Printf("Published %s to %s: %s\n", id, *stream, data)
}
