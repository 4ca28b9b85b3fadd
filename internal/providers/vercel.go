package providers

import (
	"context"
	"encoding/json"
	"strconv"

	"model_gateway/internal/catalog"
	"model_gateway/internal/fetch"
	"model_gateway/internal/models"
)

type vercelAdapter struct {
	baseAdapter
}

func newVercelAdapter(deps adapterDeps) *vercelAdapter {
	return &vercelAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeVercel}}
}

type vercelModel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
}

func (a *vercelAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	body, err := a.fetcher.GetJSON(ctx, fetch.Request{
		URL:     a.BuildURL(cfg.BaseURL, "/models"),
		Headers: authHeaders(a, cfg.APIKey),
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, models.NewParseError("unexpected vercel model list", err)
	}
	if envelope.Data == nil {
		return nil, models.NewParseError("vercel model list has no data field", nil)
	}

	raw := make([]catalog.RawModel, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var m vercelModel
		if err := json.Unmarshal(item, &m); err != nil {
			return nil, models.NewParseError("unexpected vercel model entry", err)
		}
		raw = append(raw, catalog.RawModel{
			ID:       m.ID,
			Name:     m.Name,
			Created:  unixTime(m.Created),
			Features: vercelFeatures(m.Type),
			Source:   item,
		})
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func vercelFeatures(modelType string) []models.ModelFeature {
	switch modelType {
	case "embedding":
		return []models.ModelFeature{models.ModelFeatureEmbedding}
	case "image":
		return []models.ModelFeature{models.ModelFeatureImageGeneration}
	}
	return nil
}

func (a *vercelAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/credits"), authHeaders(a, apiKey))
}

// FetchCredits reads the balance, which Vercel reports as decimal strings.
func (a *vercelAdapter) FetchCredits(ctx context.Context, cfg models.ProviderConfig) (*models.Credits, error) {
	body, err := a.fetcher.GetJSON(ctx, fetch.Request{
		URL:     a.BuildURL(cfg.BaseURL, "/credits"),
		Headers: authHeaders(a, cfg.APIKey),
		NoCache: true,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Balance   string `json:"balance"`
		TotalUsed string `json:"total_used"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, models.NewParseError("unexpected vercel credits response", err)
	}
	balance, err := strconv.ParseFloat(resp.Balance, 64)
	if err != nil {
		return nil, models.NewParseError("invalid vercel balance", err)
	}
	used, err := strconv.ParseFloat(resp.TotalUsed, 64)
	if err != nil {
		return nil, models.NewParseError("invalid vercel usage", err)
	}
	return &models.Credits{Total: balance + used, Used: used, Remaining: balance}, nil
}
