package providers

import (
	"context"

	"model_gateway/internal/models"
)

type openAIAdapter struct {
	baseAdapter
}

func newOpenAIAdapter(deps adapterDeps) *openAIAdapter {
	return &openAIAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeOpenAI}}
}

func (a *openAIAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	raw, err := fetchOpenAIModels(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/models"), authHeaders(a, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	for i := range raw {
		raw[i].Author = "openai"
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *openAIAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/models"), authHeaders(a, apiKey))
}

// ChatRequestOptions routes requests of one config to the same prompt cache.
func (a *openAIAdapter) ChatRequestOptions(cfg models.ProviderConfig) map[string]any {
	if cfg.CacheIdentifier == "" {
		return nil
	}
	return map[string]any{"prompt_cache_key": cfg.CacheIdentifier}
}
