package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	loggerMu sync.RWMutex
	logger   zerolog.Logger
	initOnce sync.Once
)

// Setup configures the process-wide logger. format is "json" or "console".
func Setup(level, format string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	var out io.Writer
	switch strings.ToLower(format) {
	case "", "json":
		out = os.Stdout
	case "console":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	SetLogger(New(out, lvl))
	return nil
}

// New builds a logger writing to out at the given level.
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "model-gateway").
		Logger()
}

// SetLogger replaces the process-wide logger.
func SetLogger(l zerolog.Logger) {
	initOnce.Do(func() {})
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Logger returns the process-wide logger, defaulting to info-level console output.
func Logger() *zerolog.Logger {
	initOnce.Do(func() {
		level := zerolog.InfoLevel
		if local := os.Getenv("LOCAL"); strings.EqualFold(local, "true") || local == "1" {
			level = zerolog.DebugLevel
		}
		logger = New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
	})
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	l := logger
	return &l
}

func parseLevel(raw string) (zerolog.Level, error) {
	if raw == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}
