package providers

import (
	"context"
	"regexp"
	"strings"

	"model_gateway/internal/models"
)

// Fireworks ids look like accounts/fireworks/models/glm-4p6.
var fireworksVersionDot = regexp.MustCompile(`(\d)p(\d)`)

type fireworksAdapter struct {
	baseAdapter
}

func newFireworksAdapter(deps adapterDeps) *fireworksAdapter {
	return &fireworksAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeFireworks}}
}

func (a *fireworksAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	raw, err := fetchOpenAIModels(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/models"), authHeaders(a, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	for i := range raw {
		raw[i].LocalID = fireworksLocalID(raw[i].ID)
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *fireworksAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/models"), authHeaders(a, apiKey))
}

func fireworksLocalID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return fireworksVersionDot.ReplaceAllString(id, "$1.$2")
}
