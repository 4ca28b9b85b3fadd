package providers

import (
	"context"
	"encoding/json"
	"strings"

	"model_gateway/internal/catalog"
	"model_gateway/internal/fetch"
	"model_gateway/internal/models"
)

type openRouterAdapter struct {
	baseAdapter
}

func newOpenRouterAdapter(deps adapterDeps) *openRouterAdapter {
	return &openRouterAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeOpenRouter}}
}

func (a *openRouterAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	raw, err := fetchAggregatorModels(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/models"), authHeaders(a, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *openRouterAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/key"), authHeaders(a, apiKey))
}

func (a *openRouterAdapter) FetchCredits(ctx context.Context, cfg models.ProviderConfig) (*models.Credits, error) {
	return fetchAggregatorCredits(ctx, a.fetcher, a.BuildURL(cfg.BaseURL, "/credits"), authHeaders(a, cfg.APIKey))
}

func (a *openRouterAdapter) ChatRequestOptions(cfg models.ProviderConfig) map[string]any {
	return aggregatorRequestOptions(cfg)
}

// aggregatorModel is the OpenRouter-shaped catalog entry, also served by Quests.
type aggregatorModel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Created      int64  `json:"created"`
	Architecture struct {
		InputModalities  []string `json:"input_modalities"`
		OutputModalities []string `json:"output_modalities"`
	} `json:"architecture"`
	SupportedParameters []string `json:"supported_parameters"`
}

func fetchAggregatorModels(ctx context.Context, f Fetcher, endpoint string, headers map[string]string) ([]catalog.RawModel, error) {
	body, err := f.GetJSON(ctx, fetch.Request{URL: endpoint, Headers: headers})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, models.NewParseError("unexpected model list shape", err)
	}
	if envelope.Data == nil {
		return nil, models.NewParseError("model list has no data field", nil)
	}

	raw := make([]catalog.RawModel, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var m aggregatorModel
		if err := json.Unmarshal(item, &m); err != nil {
			return nil, models.NewParseError("unexpected model entry", err)
		}
		raw = append(raw, catalog.RawModel{
			ID:       m.ID,
			Name:     stripAuthorLabel(m.Name),
			Created:  unixTime(m.Created),
			Features: aggregatorFeatures(m),
			Source:   item,
		})
	}
	return raw, nil
}

// aggregatorFeatures maps reported modalities to features. An entry that
// reports nothing falls back to the static feature table.
func aggregatorFeatures(m aggregatorModel) []models.ModelFeature {
	var out []models.ModelFeature
	add := func(f models.ModelFeature) {
		for _, have := range out {
			if have == f {
				return
			}
		}
		out = append(out, f)
	}

	for _, o := range m.Architecture.OutputModalities {
		switch o {
		case "text":
			add(models.ModelFeatureText)
		case "image":
			add(models.ModelFeatureImageGeneration)
		case "audio":
			add(models.ModelFeatureAudio)
		}
	}
	for _, p := range m.SupportedParameters {
		if p == "tools" {
			add(models.ModelFeatureTools)
		}
	}
	for _, in := range m.Architecture.InputModalities {
		switch in {
		case "image":
			add(models.ModelFeatureInputImage)
		case "audio":
			add(models.ModelFeatureAudio)
		}
	}
	return out
}

// stripAuthorLabel turns "Anthropic: Claude Sonnet 4.5" into "Claude Sonnet 4.5".
func stripAuthorLabel(name string) string {
	if _, rest, ok := strings.Cut(name, ": "); ok && rest != "" {
		return rest
	}
	return name
}

func fetchAggregatorCredits(ctx context.Context, f Fetcher, endpoint string, headers map[string]string) (*models.Credits, error) {
	body, err := f.GetJSON(ctx, fetch.Request{URL: endpoint, Headers: headers, NoCache: true})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data *struct {
			TotalCredits float64 `json:"total_credits"`
			TotalUsage   float64 `json:"total_usage"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, models.NewParseError("unexpected credits response", err)
	}
	if resp.Data == nil {
		return nil, models.NewParseError("credits response has no data field", nil)
	}
	return &models.Credits{
		Total:     resp.Data.TotalCredits,
		Used:      resp.Data.TotalUsage,
		Remaining: resp.Data.TotalCredits - resp.Data.TotalUsage,
	}, nil
}

func aggregatorRequestOptions(cfg models.ProviderConfig) map[string]any {
	opts := map[string]any{"usage": map[string]any{"include": true}}
	if cfg.CacheIdentifier != "" {
		opts["user"] = cfg.CacheIdentifier
	}
	return opts
}
