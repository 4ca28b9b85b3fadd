package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"model_gateway/internal/catalog"
	"model_gateway/internal/fetch"
	"model_gateway/internal/logging"
	"model_gateway/internal/models"
)

const anthropicVersion = "2023-06-01"

type anthropicAdapter struct {
	baseAdapter
}

func newAnthropicAdapter(deps adapterDeps) *anthropicAdapter {
	return &anthropicAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeAnthropic}}
}

// BuildURL maps the OpenAI-shaped chat path onto Anthropic's compatibility
// endpoint. Native paths already carry their /v1 prefix.
func (a *anthropicAdapter) BuildURL(baseURL, path string) string {
	switch path {
	case "/chat/completions", "/models":
		path = "/v1" + path
	}
	return joinURL(baseURL, a.Metadata().DefaultBaseURL, path)
}

func (a *anthropicAdapter) SetAuthHeaders(h http.Header, apiKey string) {
	XAPIKeyAuth.Apply(h, apiKey)
	if h.Get("anthropic-version") == "" {
		h.Set("anthropic-version", anthropicVersion)
	}
}

type anthropicModelList struct {
	Data []struct {
		ID          string    `json:"id"`
		DisplayName string    `json:"display_name"`
		CreatedAt   time.Time `json:"created_at"`
	} `json:"data"`
	HasMore bool   `json:"has_more"`
	LastID  string `json:"last_id"`
}

func (a *anthropicAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	endpoint := a.BuildURL(cfg.BaseURL, "/v1/models?limit=1000")
	body, err := a.fetcher.GetJSON(ctx, fetch.Request{URL: endpoint, Headers: authHeaders(a, cfg.APIKey)})
	if err != nil {
		return nil, err
	}

	var list anthropicModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, models.NewParseError("unexpected anthropic model list", err)
	}
	if list.Data == nil {
		return nil, models.NewParseError("anthropic model list has no data field", nil)
	}
	if list.HasMore {
		logging.Logger().Warn().
			Str("config_id", cfg.ID).
			Str("last_id", list.LastID).
			Msg("anthropic model list is paginated, only the first page is used")
	}

	var entries []json.RawMessage
	_ = json.Unmarshal(extractField(body, "data"), &entries)

	raw := make([]catalog.RawModel, 0, len(list.Data))
	for i, m := range list.Data {
		r := catalog.RawModel{
			ID:     m.ID,
			Author: "anthropic",
			Name:   m.DisplayName,
		}
		if !m.CreatedAt.IsZero() {
			created := m.CreatedAt.UTC()
			r.Created = &created
		}
		if i < len(entries) {
			r.Source = entries[i]
		}
		raw = append(raw, r)
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *anthropicAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/v1/models?limit=1"), authHeaders(a, apiKey))
}
