package resolver

import (
	"context"
	"fmt"

	"model_gateway/internal/logging"
	"model_gateway/internal/models"
)

// DefaultCandidates is how many providers a fallback selection returns.
const DefaultCandidates = 2

var (
	ImageGenerationPriority = []models.ProviderType{
		models.ProviderTypeQuests,
		models.ProviderTypeOpenRouter,
		models.ProviderTypeGoogle,
		models.ProviderTypeOpenAI,
		models.ProviderTypeXAI,
		models.ProviderTypeVercel,
		models.ProviderTypeFireworks,
	}
	WebSearchPriority = []models.ProviderType{
		models.ProviderTypeQuests,
		models.ProviderTypeOpenRouter,
		models.ProviderTypeGoogle,
		models.ProviderTypeOpenAI,
		models.ProviderTypeXAI,
		models.ProviderTypeVercel,
	}
)

// CapabilityPriority returns the fallback order of vendor types for c.
// Only capabilities that some vendors lack have one.
func CapabilityPriority(c models.Capability) ([]models.ProviderType, bool) {
	switch c {
	case models.CapabilityImageGeneration:
		return ImageGenerationPriority, true
	case models.CapabilityWebSearch:
		return WebSearchPriority, true
	default:
		return nil, false
	}
}

// Preference names the config a caller would like to use. Either field may
// be empty.
type Preference struct {
	ConfigID string
	Type     models.ProviderType
}

// SelectProviders returns up to n configs to try in order: the preferred
// config when eligible, else a config of the preferred type, then one config
// per remaining eligible type in priority order. Only configured types are
// ever returned.
func SelectProviders(preferred Preference, configs []models.ProviderConfig, eligible []models.ProviderType, n int) []models.ProviderConfig {
	if n <= 0 {
		n = DefaultCandidates
	}

	isEligible := make(map[models.ProviderType]bool, len(eligible))
	for _, t := range eligible {
		isEligible[t] = true
	}

	selected := make([]models.ProviderConfig, 0, n)
	usedTypes := make(map[models.ProviderType]bool)
	add := func(cfg models.ProviderConfig) {
		selected = append(selected, cfg)
		usedTypes[cfg.Type] = true
	}

	if cfg, ok := configByID(configs, preferred.ConfigID); ok && preferred.ConfigID != "" && isEligible[cfg.Type] {
		add(cfg)
	} else if preferred.Type != "" && isEligible[preferred.Type] {
		if cfg, ok := firstOfType(configs, preferred.Type); ok {
			add(cfg)
		}
	}

	for _, t := range eligible {
		if len(selected) >= n {
			break
		}
		if usedTypes[t] {
			continue
		}
		if cfg, ok := firstOfType(configs, t); ok {
			add(cfg)
		}
	}

	if len(selected) > n {
		selected = selected[:n]
	}
	return selected
}

func firstOfType(configs []models.ProviderConfig, t models.ProviderType) (models.ProviderConfig, bool) {
	for _, cfg := range configs {
		if cfg.Type == t {
			return cfg, true
		}
	}
	return models.ProviderConfig{}, false
}

// TryInOrder calls fn for each candidate until one succeeds. Exhausting the
// list yields NotFound carrying the last failure. Cancellation stops early.
func TryInOrder[T any](ctx context.Context, candidates []models.ProviderConfig, fn func(context.Context, models.ProviderConfig) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for _, cfg := range candidates {
		if err := ctx.Err(); err != nil {
			return zero, models.NewFetchError("canceled before trying "+cfg.ID, err)
		}
		v, err := fn(ctx, cfg)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}

	notFound := models.NewNotFoundError(fmt.Sprintf("no provider succeeded out of %d candidates", len(candidates)))
	notFound.Cause = lastErr
	return zero, notFound
}

// SelectForCapability picks the first fallback candidate for c whose API key
// verifies. Candidates come from SelectProviders with DefaultCandidates slots.
func (s *Service) SelectForCapability(ctx context.Context, configs []models.ProviderConfig, c models.Capability, preferred Preference) (models.ProviderConfig, error) {
	eligible, ok := CapabilityPriority(c)
	if !ok {
		return models.ProviderConfig{}, models.NewNotFoundError(fmt.Sprintf("no provider fallback order for capability %q", c))
	}

	candidates := SelectProviders(preferred, configs, eligible, DefaultCandidates)
	return TryInOrder(ctx, candidates, func(ctx context.Context, cfg models.ProviderConfig) (models.ProviderConfig, error) {
		adapter, err := s.adapters.ForConfig(cfg)
		if err != nil {
			return models.ProviderConfig{}, err
		}
		if err := adapter.VerifyAPIKey(ctx, cfg.APIKey, cfg.BaseURL); err != nil {
			logging.Logger().Debug().
				Err(err).
				Str("config_id", cfg.ID).
				Str("capability", string(c)).
				Msg("fallback candidate rejected")
			return models.ProviderConfig{}, err
		}
		return cfg, nil
	})
}
