package logging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// enqueueScript appends to the list and trims it to the newest max_size entries.
var enqueueScript = redis.NewScript(`
	local key = KEYS[1]
	local value = ARGV[1]
	local max_size = tonumber(ARGV[2])

	redis.call('RPUSH', key, value)

	local len = redis.call('LLEN', key)
	if len > max_size then
		redis.call('LTRIM', key, len - max_size, -1)
	end

	return len
`)

// dequeueScript pops up to count of the oldest entries atomically.
var dequeueScript = redis.NewScript(`
	local key = KEYS[1]
	local count = tonumber(ARGV[1])

	local records = redis.call('LRANGE', key, 0, count - 1)
	if #records > 0 then
		redis.call('LTRIM', key, #records, -1)
	end

	return records
`)

// RedisSink buffers observability events in a capped Redis list, where an
// external collector drains them.
type RedisSink struct {
	client   *redis.Client
	queueKey string
	maxSize  int64
}

// RedisSinkConfig holds configuration for the Redis sink
type RedisSinkConfig struct {
	QueueKey string // Redis list key
	MaxSize  int64  // oldest events are dropped beyond this size; 0 = unlimited
}

// DefaultRedisSinkConfig returns default configuration
func DefaultRedisSinkConfig() RedisSinkConfig {
	return RedisSinkConfig{
		QueueKey: "gateway:events",
		MaxSize:  10000,
	}
}

func NewRedisSink(client *redis.Client, cfg RedisSinkConfig) *RedisSink {
	return &RedisSink{
		client:   client,
		queueKey: cfg.QueueKey,
		maxSize:  cfg.MaxSize,
	}
}

// Enqueue appends an event to the Redis list
func (s *RedisSink) Enqueue(ctx context.Context, ev *Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if s.maxSize > 0 {
		if err := enqueueScript.Run(ctx, s.client, []string{s.queueKey}, data, s.maxSize).Err(); err != nil {
			return fmt.Errorf("failed to enqueue event: %w", err)
		}
		return nil
	}

	if err := s.client.RPush(ctx, s.queueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}
	return nil
}

// Dequeue removes and returns up to count of the oldest events.
func (s *RedisSink) Dequeue(ctx context.Context, count int) ([]*Event, error) {
	if count <= 0 {
		count = 100
	}

	result, err := dequeueScript.Run(ctx, s.client, []string{s.queueKey}, count).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue: %w", err)
	}

	events := make([]*Event, 0, len(result))
	for i, data := range result {
		var ev Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event %d: %w", i, err)
		}
		events = append(events, &ev)
	}
	return events, nil
}

// Size returns the current queue length
func (s *RedisSink) Size(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.queueKey).Result()
}
