package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// RedisPublisher publishes events with Redis PUBLISH. When History is set,
// the latest events of each channel are also kept in a capped list under
// HistoryKey(channel), so a consumer that was offline can catch up.
type RedisPublisher struct {
	client  *redis.Client
	history int64
}

// NewRedisPublisher connects to Redis and checks the connection.
func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPublisher{client: client, history: int64(cfg.History)}, nil
}

// HistoryKey is the list holding the recent events of channel, newest first.
func HistoryKey(channel string) string {
	return channel + ":history"
}

// Publish sends event on channel and, with history enabled, prepends it to
// the channel's history list in the same transaction.
func (r *RedisPublisher) Publish(ctx context.Context, channel string, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if r.history <= 0 {
		return r.client.Publish(ctx, channel, data).Err()
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := HistoryKey(channel)
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, r.history-1)
		pipe.Publish(ctx, channel, data)
		return nil
	})
	return err
}

// Close closes the Redis client.
func (r *RedisPublisher) Close() error {
	return r.client.Close()
}
