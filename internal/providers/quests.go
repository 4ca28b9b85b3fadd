package providers

import (
	"context"

	"model_gateway/internal/models"
)

// questsAdapter talks to the Quests gateway, which serves the OpenRouter
// catalog shape and keeps a prepaid balance per key.
type questsAdapter struct {
	baseAdapter
}

func newQuestsAdapter(deps adapterDeps) *questsAdapter {
	return &questsAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeQuests}}
}

func (a *questsAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	raw, err := fetchAggregatorModels(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/models"), authHeaders(a, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *questsAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/credits"), authHeaders(a, apiKey))
}

func (a *questsAdapter) FetchCredits(ctx context.Context, cfg models.ProviderConfig) (*models.Credits, error) {
	return fetchAggregatorCredits(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/credits"), authHeaders(a, cfg.APIKey))
}

func (a *questsAdapter) ChatRequestOptions(cfg models.ProviderConfig) map[string]any {
	return aggregatorRequestOptions(cfg)
}
