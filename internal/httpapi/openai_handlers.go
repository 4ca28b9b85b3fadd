package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/sashabaranov/go-openai"

	"model_gateway/internal/logging"
	"model_gateway/internal/middleware"
	"model_gateway/internal/models"
	"model_gateway/internal/providers"
	"model_gateway/internal/resolver"
	"model_gateway/internal/utils"
)

// modelsResponse is the OpenAI list-models shape.
type modelsResponse struct {
	Object string `json:"object"`
	openai.ModelsList
}

// handleModels lists chat models across all configs. Model ids are URIs so
// they round-trip through /openai/chat/completions to the same provider.
func (d *Dependencies) handleModels(w http.ResponseWriter, r *http.Request) {
	configs, err := d.Configs.ProviderConfigs(r.Context())
	if err != nil {
		d.internalError(w, r, err)
		return
	}

	result := d.Resolver.ChatModels(r.Context(), configs)

	resp := modelsResponse{
		Object:     "list",
		ModelsList: openai.ModelsList{Models: make([]openai.Model, 0, len(result.Models))},
	}
	for _, m := range result.Models {
		entry := openai.Model{ID: m.URI, Object: "model", OwnedBy: m.Author}
		if m.Created != nil {
			entry.CreatedAt = m.Created.Unix()
		}
		resp.Models = append(resp.Models, entry)
	}

	_ = utils.RespondWithJSON(w, http.StatusOK, resp)
}

// handleCatalog returns the full multi-provider catalog with per-provider errors.
func (d *Dependencies) handleCatalog(w http.ResponseWriter, r *http.Request) {
	configs, err := d.Configs.ProviderConfigs(r.Context())
	if err != nil {
		d.internalError(w, r, err)
		return
	}
	_ = utils.RespondWithJSON(w, http.StatusOK, d.Resolver.FetchAll(r.Context(), configs))
}

// handleChatCompletions routes an OpenAI chat request by its model field.
//
// Flow:
//  1. Decode JSON body and read the model
//  2. Resolve the model across chat-capable configs
//  3. Rewrite model to the vendor's id and merge vendor options
//  4. Fall back to the default config when nothing matched
//  5. Proxy to the chosen config
func (d *Dependencies) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(d.limitBody(w, r))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	modelName, _ := payload["model"].(string)
	if modelName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing 'model' field")
		return
	}

	configs, err := d.Configs.ProviderConfigs(ctx)
	if err != nil {
		d.internalError(w, r, err)
		return
	}

	var cfg models.ProviderConfig
	res, err := d.Resolver.ResolveChatModel(ctx, modelName, configs)
	switch {
	case err == nil:
		cfg = res.Config
		payload["model"] = res.Model.ProviderID
	case models.IsKind(err, models.ErrorKindNotFound):
		fallback, ok := d.fallbackChatConfig(configs)
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "No provider configured for chat completions")
			return
		}
		logging.Logger().Debug().
			Str("request_id", middleware.GetRequestID(ctx)).
			Str("model", modelName).
			Str("config_id", fallback.ID).
			Msg("model not found in any catalog, using fallback provider")
		cfg = fallback
	default:
		d.internalError(w, r, err)
		return
	}

	if adapter, err := d.Registry.ForConfig(cfg); err == nil {
		if optioner, ok := adapter.(providers.RequestOptioner); ok {
			for k, v := range optioner.ChatRequestOptions(cfg) {
				if _, exists := payload[k]; !exists {
					payload[k] = v
				}
			}
		}
	}

	rewritten, err := json.Marshal(payload)
	if err != nil {
		d.internalError(w, r, models.NewUnknownError("failed to encode request body", err))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(rewritten))
	r.ContentLength = int64(len(rewritten))
	r.Header.Set("Content-Length", strconv.Itoa(len(rewritten)))

	d.forward(w, r, cfg, "/chat/completions")
}

// fallbackChatConfig picks the configured default, else the first OpenAI
// config, else the first chat-capable config.
func (d *Dependencies) fallbackChatConfig(configs []models.ProviderConfig) (models.ProviderConfig, bool) {
	chat := resolver.ChatConfigs(configs)
	if d.DefaultConfigID != "" {
		if cfg, ok := configByID(chat, d.DefaultConfigID); ok {
			return cfg, true
		}
	}
	if cfg, ok := firstConfigOfType(chat, models.ProviderTypeOpenAI); ok {
		return cfg, true
	}
	if len(chat) > 0 {
		return chat[0], true
	}
	return models.ProviderConfig{}, false
}

func (d *Dependencies) limitBody(w http.ResponseWriter, r *http.Request) io.Reader {
	if d.MaxBodyBytes <= 0 {
		return r.Body
	}
	return http.MaxBytesReader(w, r.Body, d.MaxBodyBytes)
}
