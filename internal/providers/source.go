package providers

import (
	"context"
	"sync"
	"time"

	"model_gateway/internal/logging"
	"model_gateway/internal/models"
)

// ConfigSource supplies the current provider configs. Order is meaningful:
// earlier configs win ties in env building and catalog de-duplication.
type ConfigSource interface {
	ProviderConfigs(ctx context.Context) ([]models.ProviderConfig, error)
}

// StaticSource serves a fixed list, typically loaded from a file.
type StaticSource struct {
	configs []models.ProviderConfig
}

func NewStaticSource(configs []models.ProviderConfig) *StaticSource {
	return &StaticSource{configs: append([]models.ProviderConfig(nil), configs...)}
}

func (s *StaticSource) ProviderConfigs(context.Context) ([]models.ProviderConfig, error) {
	return append([]models.ProviderConfig(nil), s.configs...), nil
}

// ReloadingSource caches another source and refreshes it periodically.
// A failed refresh keeps serving the last good snapshot.
type ReloadingSource struct {
	inner    ConfigSource
	interval time.Duration

	mu       sync.RWMutex
	configs  []models.ProviderConfig
	loaded   bool
	loadedAt time.Time
}

func NewReloadingSource(inner ConfigSource, interval time.Duration) *ReloadingSource {
	return &ReloadingSource{inner: inner, interval: interval}
}

// ProviderConfigs returns the cached snapshot, loading it on first use.
func (s *ReloadingSource) ProviderConfigs(ctx context.Context) ([]models.ProviderConfig, error) {
	s.mu.RLock()
	if s.loaded {
		out := append([]models.ProviderConfig(nil), s.configs...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.ProviderConfigs(ctx)
}

// Refresh reloads from the inner source, dropping invalid configs.
func (s *ReloadingSource) Refresh(ctx context.Context) error {
	configs, err := s.inner.ProviderConfigs(ctx)
	if err != nil {
		return err
	}

	valid := configs[:0:0]
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			logging.Logger().Warn().Err(err).Str("config_id", cfg.ID).Msg("skipping invalid provider config")
			continue
		}
		valid = append(valid, cfg)
	}

	s.mu.Lock()
	s.configs = valid
	s.loaded = true
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Run refreshes on every interval until ctx is cancelled.
func (s *ReloadingSource) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				logging.Logger().Error().Err(err).Msg("failed to reload provider configs")
			}
		}
	}
}

// LoadedAt reports when the current snapshot was taken.
func (s *ReloadingSource) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
