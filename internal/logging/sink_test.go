package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model_gateway/internal/models"
)

type recordingSink struct {
	events []*Event
}

func (s *recordingSink) Enqueue(_ context.Context, ev *Event) error {
	s.events = append(s.events, ev)
	return nil
}

func TestNoopSink(t *testing.T) {
	sink := NewNoopSink()
	err := sink.Enqueue(context.Background(), &Event{Kind: EventUnmatchedRoute, Path: "/nope"})
	if err != nil {
		t.Errorf("Expected no error from NoopSink.Enqueue, got %v", err)
	}
}

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(New(&buf, zerolog.DebugLevel))
	t.Cleanup(func() { SetLogger(New(&bytes.Buffer{}, zerolog.Disabled)) })

	err := NewLoggerSink().Enqueue(context.Background(), &Event{
		Kind:   EventUnmatchedRoute,
		Method: "GET",
		Path:   "/ai-gateway/nope",
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "unmatched_route", line["event"])
	assert.Equal(t, "/ai-gateway/nope", line["path"])
	assert.Equal(t, "warn", line["level"])
}

func TestCaptureException(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}

	CaptureException(ctx, sink, nil, Event{})
	CaptureException(ctx, sink, models.NewFetchError("boom", nil), Event{})
	CaptureException(ctx, sink, models.NewNotFoundError("missing"), Event{})
	assert.Empty(t, sink.events, "typed, expected failures are not exceptions")

	CaptureException(ctx, sink, errors.New("nil pointer"), Event{Path: "/x"})
	CaptureException(ctx, sink, fmt.Errorf("wrap: %w", models.NewUnknownError("odd", nil)), Event{})
	require.Len(t, sink.events, 2)
	assert.Equal(t, EventException, sink.events[0].Kind)
	assert.Equal(t, models.ErrorKindUnknown, sink.events[0].ErrorKind)
	assert.Equal(t, "/x", sink.events[0].Path)
	assert.False(t, sink.events[0].Timestamp.IsZero())
}

func setupRedisSink(t *testing.T, maxSize int64) *RedisSink {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSink(client, RedisSinkConfig{QueueKey: "test:events", MaxSize: maxSize})
}

func TestRedisSink_EnqueueDequeue(t *testing.T) {
	ctx := context.Background()
	sink := setupRedisSink(t, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, sink.Enqueue(ctx, &Event{
			Timestamp: time.Now(),
			Kind:      EventUnmatchedRoute,
			Path:      fmt.Sprintf("/p%d", i),
		}))
	}

	size, err := sink.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	events, err := sink.Dequeue(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "/p0", events[0].Path)
	assert.Equal(t, "/p1", events[1].Path)

	size, _ = sink.Size(ctx)
	assert.Equal(t, int64(1), size)
}

func TestRedisSink_MaxSizeDropsOldest(t *testing.T) {
	ctx := context.Background()
	sink := setupRedisSink(t, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, sink.Enqueue(ctx, &Event{Kind: EventProviderError, ConfigID: fmt.Sprintf("c%d", i)}))
	}

	events, err := sink.Dequeue(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "c3", events[0].ConfigID)
	assert.Equal(t, "c4", events[1].ConfigID)
}
