package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model_gateway/internal/models"
	"model_gateway/internal/resolver"
)

func vendorBody(t *testing.T, v *fakeVendor) map[string]any {
	t.Helper()
	got := v.last(t)
	var body map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &body))
	return body
}

func TestHandleModels(t *testing.T) {
	vendor := newFakeVendor(t, map[string]string{"/models": openAIModelList})
	d, _ := newTestDeps(t,
		models.ProviderConfig{ID: "oa", Type: models.ProviderTypeOpenAI, APIKey: "sk-real", BaseURL: vendor.URL},
		// Not chat capable, so never listed
		models.ProviderConfig{ID: "an", Type: models.ProviderTypeAnthropic, APIKey: "sk-ant", BaseURL: vendor.URL},
	)

	w := doRequest(t, NewRouter(d), http.MethodGet, testPrefix+"/openai/models", "", bearer())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Object string `json:"object"`
		Data   []struct {
			ID      string `json:"id"`
			Object  string `json:"object"`
			OwnedBy string `json:"owned_by"`
			Created int64  `json:"created"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "list", resp.Object)

	ids := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		ids = append(ids, m.ID)
		assert.Equal(t, "model", m.Object)
		assert.Equal(t, "openai", m.OwnedBy)
		assert.NotZero(t, m.Created)
	}
	assert.ElementsMatch(t, []string{
		"openai/gpt-4o?provider=openai&providerConfigId=oa",
		"openai/gpt-5.1-codex?provider=openai&providerConfigId=oa",
	}, ids)
}

func TestHandleChatCompletions_RewritesModel(t *testing.T) {
	vendor := newFakeVendor(t, map[string]string{"/models": openAIModelList})
	d, _ := newTestDeps(t, models.ProviderConfig{
		ID:              "oa",
		Type:            models.ProviderTypeOpenAI,
		APIKey:          "sk-real",
		BaseURL:         vendor.URL,
		CacheIdentifier: "workspace-1",
	})
	router := NewRouter(d)

	tests := []struct {
		name  string
		model string
	}{
		{"canonical id", "gpt-4o"},
		{"uri", "openai/gpt-4o?provider=openai&providerConfigId=oa"},
		{"provider id", "gpt-4o-2024-08-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"model":"` + tt.model + `","messages":[{"role":"user","content":"hi"}],"stream":true}`
			w := doRequest(t, router, http.MethodPost, testPrefix+"/openai/chat/completions", payload, bearer())
			require.Equal(t, http.StatusOK, w.Code)

			got := vendor.last(t)
			assert.Equal(t, "/chat/completions", got.Path)
			assert.Equal(t, "Bearer sk-real", got.Header.Get("Authorization"))

			body := vendorBody(t, vendor)
			assert.Equal(t, "gpt-4o-2024-08-06", body["model"])
			assert.Equal(t, "workspace-1", body["prompt_cache_key"])
			assert.Equal(t, true, body["stream"])
			assert.Len(t, body["messages"], 1)
		})
	}
}

func TestHandleChatCompletions_KeepsCallerOptions(t *testing.T) {
	vendor := newFakeVendor(t, map[string]string{"/models": openAIModelList})
	d, _ := newTestDeps(t, models.ProviderConfig{
		ID:              "oa",
		Type:            models.ProviderTypeOpenAI,
		APIKey:          "sk-real",
		BaseURL:         vendor.URL,
		CacheIdentifier: "workspace-1",
	})

	payload := `{"model":"gpt-4o","prompt_cache_key":"caller"}`
	w := doRequest(t, NewRouter(d), http.MethodPost, testPrefix+"/openai/chat/completions", payload, bearer())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "caller", vendorBody(t, vendor)["prompt_cache_key"])
}

func TestHandleChatCompletions_FallsBackForUnknownModel(t *testing.T) {
	first := newFakeVendor(t, map[string]string{"/models": `{"data":[]}`})
	second := newFakeVendor(t, map[string]string{"/models": `{"data":[]}`})
	d, _ := newTestDeps(t,
		models.ProviderConfig{ID: "or", Type: models.ProviderTypeOpenRouter, APIKey: "sk-or", BaseURL: first.URL},
		models.ProviderConfig{ID: "oa", Type: models.ProviderTypeOpenAI, APIKey: "sk-real", BaseURL: second.URL},
	)

	// Without a default the first OpenAI config wins
	w := doRequest(t, NewRouter(d), http.MethodPost, testPrefix+"/openai/chat/completions", `{"model":"mystery-1"}`, bearer())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mystery-1", vendorBody(t, second)["model"])
	assert.Equal(t, "/chat/completions", second.last(t).Path)

	d.DefaultConfigID = "or"
	w = doRequest(t, NewRouter(d), http.MethodPost, testPrefix+"/openai/chat/completions", `{"model":"mystery-2"}`, bearer())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mystery-2", vendorBody(t, first)["model"])
}

func TestHandleChatCompletions_NoChatProvider(t *testing.T) {
	vendor := newFakeVendor(t, nil)
	d, _ := newTestDeps(t, models.ProviderConfig{ID: "an", Type: models.ProviderTypeAnthropic, APIKey: "sk-ant", BaseURL: vendor.URL})

	w := doRequest(t, NewRouter(d), http.MethodPost, testPrefix+"/openai/chat/completions", `{"model":"claude-sonnet-4.5"}`, bearer())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No provider configured for chat completions", decodeError(t, w))
}

func TestHandleChatCompletions_BadRequests(t *testing.T) {
	d, _ := newTestDeps(t)
	router := NewRouter(d)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"not json", `{"model":`, "Invalid JSON body"},
		{"array", `[1,2]`, "Invalid JSON body"},
		{"null", `null`, "Invalid JSON body"},
		{"no model", `{"messages":[]}`, "Missing 'model' field"},
		{"empty model", `{"model":""}`, "Missing 'model' field"},
		{"model not a string", `{"model":42}`, "Missing 'model' field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, testPrefix+"/openai/chat/completions", tt.body, bearer())
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w))
		})
	}
}

func TestHandleChatCompletions_BodyTooLarge(t *testing.T) {
	d, _ := newTestDeps(t)
	d.MaxBodyBytes = 16

	w := doRequest(t, NewRouter(d), http.MethodPost, testPrefix+"/openai/chat/completions", `{"model":"gpt-4o","messages":[]}`, bearer())
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleCatalog_ReportsProviderErrors(t *testing.T) {
	vendor := newFakeVendor(t, map[string]string{"/models": openAIModelList})
	broken := newFakeVendor(t, map[string]string{"/models": `{"unexpected":true}`})
	d, _ := newTestDeps(t,
		models.ProviderConfig{ID: "oa", Type: models.ProviderTypeOpenAI, APIKey: "sk-real", BaseURL: vendor.URL},
		models.ProviderConfig{ID: "local", Type: models.ProviderTypeOpenAICompatible, APIKey: models.NotNeededAPIKey, BaseURL: broken.URL},
	)

	w := doRequest(t, NewRouter(d), http.MethodGet, testPrefix+"/catalog", "", bearer())
	require.Equal(t, http.StatusOK, w.Code)

	var result resolver.CatalogResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Models, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "local", result.Errors[0].ConfigID)
	assert.Equal(t, models.ProviderTypeOpenAICompatible, result.Errors[0].ProviderType)
	assert.NotEmpty(t, result.Errors[0].Kind)
}
