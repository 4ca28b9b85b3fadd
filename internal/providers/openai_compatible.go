package providers

import (
	"context"

	"model_gateway/internal/models"
)

// openAICompatibleAdapter serves self-hosted or third-party servers that
// speak the OpenAI API. The base URL always comes from the config.
type openAICompatibleAdapter struct {
	baseAdapter
}

func newOpenAICompatibleAdapter(deps adapterDeps) *openAICompatibleAdapter {
	return &openAICompatibleAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeOpenAICompatible}}
}

func (a *openAICompatibleAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	if cfg.BaseURL == "" {
		return nil, models.NewFetchError("openai-compatible provider "+cfg.ID+" has no base URL", nil)
	}
	raw, err := fetchOpenAIModels(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/models"), authHeaders(a, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *openAICompatibleAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	if baseURL == "" {
		return models.NewVerificationError("a base URL is required", nil)
	}
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/models"), authHeaders(a, apiKey))
}

// Env is empty: these providers are only reachable through /providers/{configId}.
func (a *openAICompatibleAdapter) Env(string, models.ProviderConfig) map[string]string {
	return map[string]string{}
}
