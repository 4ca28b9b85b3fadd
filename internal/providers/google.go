package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"model_gateway/internal/catalog"
	"model_gateway/internal/fetch"
	"model_gateway/internal/logging"
	"model_gateway/internal/models"
)

const googleAPIVersion = "/v1beta"

// Paths served by Gemini's OpenAI compatibility layer.
var googleOpenAIShimPaths = map[string]bool{
	"/chat/completions":   true,
	"/models":             true,
	"/images/generations": true,
	"/embeddings":         true,
}

type googleAdapter struct {
	baseAdapter
}

func newGoogleAdapter(deps adapterDeps) *googleAdapter {
	return &googleAdapter{baseAdapter{adapterDeps: deps, providerType: models.ProviderTypeGoogle}}
}

func (a *googleAdapter) BuildURL(baseURL, path string) string {
	if baseURL == "" {
		baseURL = a.Metadata().DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), googleAPIVersion)

	pathOnly, query, hasQuery := strings.Cut(path, "?")
	switch {
	case googleOpenAIShimPaths[pathOnly]:
		pathOnly = googleAPIVersion + "/openai" + pathOnly
	case strings.HasPrefix(pathOnly, "/v1beta/"), strings.HasPrefix(pathOnly, "/v1/"), strings.HasPrefix(pathOnly, "/v1alpha/"):
	default:
		if !strings.HasPrefix(pathOnly, "/") {
			pathOnly = "/" + pathOnly
		}
		pathOnly = googleAPIVersion + pathOnly
	}
	if hasQuery {
		pathOnly += "?" + query
	}
	return joinURL(baseURL, "", pathOnly)
}

func (a *googleAdapter) SetAuthHeaders(h http.Header, apiKey string) {
	GoogAPIKeyAuth.Apply(h, apiKey)
}

type googleModelList struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}

func (a *googleAdapter) FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	endpoint := a.BuildURL(cfg.BaseURL, "/v1beta/models?pageSize=1000")
	body, err := a.fetcher.GetJSON(ctx, fetch.Request{URL: endpoint, Headers: authHeaders(a, cfg.APIKey)})
	if err != nil {
		return nil, err
	}

	var list googleModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, models.NewParseError("unexpected google model list", err)
	}
	if list.Models == nil {
		return nil, models.NewParseError("google model list has no models field", nil)
	}
	if list.NextPageToken != "" {
		logging.Logger().Warn().
			Str("config_id", cfg.ID).
			Msg("google model list is paginated, only the first page is used")
	}

	var entries []json.RawMessage
	_ = json.Unmarshal(extractField(body, "models"), &entries)

	raw := make([]catalog.RawModel, 0, len(list.Models))
	for i, m := range list.Models {
		if !supportsGeneration(m.SupportedGenerationMethods) {
			continue
		}
		r := catalog.RawModel{
			ID:     strings.TrimPrefix(m.Name, "models/"),
			Author: "google",
			Name:   m.DisplayName,
		}
		if i < len(entries) {
			r.Source = entries[i]
		}
		raw = append(raw, r)
	}
	return a.builder.Build(cfg, ProviderName(cfg), raw), nil
}

func (a *googleAdapter) VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error {
	return verifyGET(ctx, a.fetcher, a.Metadata(), apiKey, a.BuildURL(baseURL, "/v1beta/models?pageSize=1"), authHeaders(a, apiKey))
}

func supportsGeneration(methods []string) bool {
	for _, m := range methods {
		if m == "generateContent" || m == "predict" {
			return true
		}
	}
	return false
}
