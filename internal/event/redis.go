package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink republishes bus events on a Redis pub/sub channel.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink connects to the Redis server at url ("redis://host:port/db"
// or a bare "host:port") and verifies the connection.
func NewRedisSink(ctx context.Context, url, channel string) (*RedisSink, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisSink{client: client, channel: channel}, nil
}

// Run publishes every event received on events until the channel closes or
// ctx is done. Publish failures are logged and skipped.
func (s *RedisSink) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}

			body, err := Encode(e)
			if err != nil {
				slog.Error("failed to encode event", "event", e.Name, "error", err)
				continue
			}

			pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = s.client.Publish(pubCtx, s.channel, body).Err()
			cancel()

			if err != nil {
				slog.Warn("failed to publish event to redis", "event", e.Name, "channel", s.channel, "error", err)
			}
		}
	}
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
