package providers

import (
	"context"
	"encoding/json"
	"strings"

	"model_gateway/internal/catalog"
	"model_gateway/internal/fetch"
	"model_gateway/internal/models"
)

type ollamaAdapter struct {
	baseAdapter
}

func newOllamaAdapter(deps adapterDeps) *ollamaAdapter {
	return &ollamaAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeOllama}}
}

// BuildURL leaves native /api paths alone and sends everything else to the
// OpenAI-compatible /v1 surface.
func (a *ollamaAdapter) BuildURL(baseURL, path string) string {
	if baseURL == "" {
		baseURL = a.Metadata().DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/api" && !strings.HasPrefix(path, "/api/") &&
		path != "/v1" && !strings.HasPrefix(path, "/v1/") {
		path = "/v1" + path
	}
	return joinURL(baseURL, "", path)
}

type ollamaTags struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (a *ollamaAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	body, err := a.fetcher.GetJSON(ctx, fetch.Request{
		URL:     a.BuildURL(cfg.BaseURL, "/api/tags"),
		Headers: authHeaders(a, cfg.APIKey),
	})
	if err != nil {
		return nil, err
	}

	var tags ollamaTags
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, models.NewParseError("unexpected ollama tag list", err)
	}
	if tags.Models == nil {
		return nil, models.NewParseError("ollama tag list has no models field", nil)
	}

	var entries []json.RawMessage
	_ = json.Unmarshal(extractField(body, "models"), &entries)

	raw := make([]catalog.RawModel, 0, len(tags.Models))
	for i, m := range tags.Models {
		r := catalog.RawModel{ID: m.Name, LocalID: m.Name}
		if i < len(entries) {
			r.Source = entries[i]
		}
		raw = append(raw, r)
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *ollamaAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/api/tags"), authHeaders(a, apiKey))
}
