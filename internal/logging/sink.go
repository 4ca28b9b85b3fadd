package logging

import (
	"context"
	"time"

	"model_gateway/internal/models"
)

// EventKind classifies observability events.
type EventKind string

const (
	EventUnmatchedRoute EventKind = "unmatched_route"
	EventException      EventKind = "exception"
	EventProviderError  EventKind = "provider_error"
)

// Event is one record sent to the observability collaborator.
type Event struct {
	Timestamp    time.Time           `json:"timestamp"`
	Kind         EventKind           `json:"kind"`
	RequestID    string              `json:"request_id,omitempty"`
	Method       string              `json:"method,omitempty"`
	Path         string              `json:"path,omitempty"`
	ProviderType models.ProviderType `json:"provider_type,omitempty"`
	ConfigID     string              `json:"config_id,omitempty"`
	ErrorKind    models.ErrorKind    `json:"error_kind,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// Sink receives observability events from the gateway.
type Sink interface {
	Enqueue(ctx context.Context, ev *Event) error
}

// NoopSink discards events.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Enqueue(context.Context, *Event) error {
	return nil
}

// LoggerSink writes events to the structured logger.
type LoggerSink struct{}

func NewLoggerSink() *LoggerSink {
	return &LoggerSink{}
}

func (s *LoggerSink) Enqueue(_ context.Context, ev *Event) error {
	e := Logger().Warn()
	if ev.Kind == EventException {
		e = Logger().Error()
	}
	e.Str("event", string(ev.Kind)).
		Str("request_id", ev.RequestID).
		Str("method", ev.Method).
		Str("path", ev.Path).
		Str("provider_type", string(ev.ProviderType)).
		Str("config_id", ev.ConfigID).
		Str("error_kind", string(ev.ErrorKind)).
		Str("error", ev.Error).
		Msg("observability event")
	return nil
}

// CaptureException reports err to sink. Only untyped errors and errors of
// kind Unknown are reported; expected failures are not exceptions.
func CaptureException(ctx context.Context, sink Sink, err error, ev Event) {
	if err == nil || models.KindOf(err) != models.ErrorKindUnknown {
		return
	}
	ev.Kind = EventException
	ev.ErrorKind = models.ErrorKindUnknown
	ev.Error = err.Error()
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if sinkErr := sink.Enqueue(ctx, &ev); sinkErr != nil {
		Logger().Warn().Err(sinkErr).Msg("failed to enqueue exception event")
	}
}
