package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"model_gateway/internal/auth"
	"model_gateway/internal/catalog"
	"model_gateway/internal/fetch"
	"model_gateway/internal/models"
)

type adapterDeps struct {
	fetcher Fetcher
	builder *catalog.Builder
}

func joinURL(baseURL, defaultBaseURL, path string) string {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	base := strings.TrimSuffix(baseURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func authHeaders(a Adapter, apiKey string) map[string]string {
	h := http.Header{}
	a.SetAuthHeaders(h, apiKey)
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

// verifyGET checks a key by issuing one uncached GET within VerifyTimeout.
func verifyGET(ctx context.Context, f Fetcher, meta models.ProviderMetadata, apiKey, endpoint string, headers map[string]string) error {
	if meta.RequiresAPIKey && (apiKey == "" || apiKey == models.NotNeededAPIKey) {
		return models.NewVerificationError(fmt.Sprintf("%s requires an API key", meta.Name), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, VerifyTimeout)
	defer cancel()

	if _, err := f.GetJSON(ctx, fetch.Request{URL: endpoint, Headers: headers, NoCache: true}); err != nil {
		return models.NewVerificationError(fmt.Sprintf("%s rejected the API key", meta.Name), err)
	}
	return nil
}

// envFor points {PREFIX}_API_KEY at the internal secret and
// {PREFIX}_BASE_URL at the gateway's vendor route.
func envFor(meta models.ProviderMetadata, gatewayBaseURL string) map[string]string {
	if meta.EnvPrefix == "" {
		return map[string]string{}
	}

	secret := auth.InternalSecret()
	baseURL := strings.TrimSuffix(gatewayBaseURL, "/") + "/" + string(meta.Type)

	env := map[string]string{
		meta.EnvPrefix + "_API_KEY":  secret,
		meta.EnvPrefix + "_BASE_URL": baseURL,
	}
	if meta.LegacyEnvPrefix != "" {
		env[meta.LegacyEnvPrefix+"_API_KEY"] = secret
		env[meta.LegacyEnvPrefix+"_BASE_URL"] = baseURL
	}
	return env
}

// ConfigRoute is the gateway URL that reaches one specific provider config.
func ConfigRoute(gatewayBaseURL string, cfg models.ProviderConfig) string {
	return strings.TrimSuffix(gatewayBaseURL, "/") + "/providers/" + url.PathEscape(cfg.ID)
}

func newChatClient(gatewayBaseURL string, cfg models.ProviderConfig) *openai.Client {
	conf := openai.DefaultConfig(auth.InternalSecret())
	conf.BaseURL = ConfigRoute(gatewayBaseURL, cfg)
	return openai.NewClientWithConfig(conf)
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

type openAIModelEntry struct {
	openai.Model
	Name string `json:"name"`
}

// fetchOpenAIModels lists models from an OpenAI-shaped GET /models.
func fetchOpenAIModels(ctx context.Context, f Fetcher, endpoint string, headers map[string]string) ([]catalog.RawModel, error) {
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
		var entry openAIModelEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, models.NewParseError("unexpected model entry", err)
		}
		raw = append(raw, catalog.RawModel{
			ID:      entry.ID,
			Name:    entry.Name,
			Created: unixTime(entry.CreatedAt),
			Source:  item,
		})
	}
	return raw, nil
}

// extractField returns the raw JSON of one top-level field, or nil.
func extractField(body []byte, field string) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	return fields[field]
}
