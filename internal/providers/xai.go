package providers

import (
	"context"

	"model_gateway/internal/models"
)

type xAIAdapter struct {
	baseAdapter
}

func newXAIAdapter(deps adapterDeps) *xAIAdapter {
	return &xAIAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeXAI}}
}

func (a *xAIAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	raw, err := fetchOpenAIModels(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/models"), authHeaders(a, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	for i := range raw {
		raw[i].Author = "x-ai"
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *xAIAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/models"), authHeaders(a, apiKey))
}
