package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model_gateway/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROVIDERS_FILE", "/etc/gateway/providers.yaml")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "/ai-gateway", cfg.Gateway.PathPrefix)
	assert.Equal(t, "http://localhost:9090/ai-gateway", cfg.GatewayBaseURL())
	assert.Equal(t, 10, cfg.Gateway.FanOutLimit)
	assert.Equal(t, 512, cfg.Cache.Size)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Providers.ReloadInterval)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, SinkLog, cfg.Observability.Sink)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PROVIDERS_FILE", "providers.yaml")
	t.Setenv("GATEWAY_PATH_PREFIX", "gw/")
	t.Setenv("GATEWAY_PUBLIC_URL", "https://host.example/")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("FANOUT_LIMIT", "not-a-number")
	t.Setenv("GATEWAY_ENV_FILE", "/run/gateway.env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/gw", cfg.Gateway.PathPrefix)
	assert.Equal(t, "https://host.example/gw", cfg.GatewayBaseURL())
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Gateway.FanOutLimit)
	assert.Equal(t, "/run/gateway.env", cfg.Gateway.EnvFile)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no provider source", map[string]string{}},
		{"database without key", map[string]string{"DATABASE_URL": "postgres://x"}},
		{"redis sink without redis", map[string]string{"PROVIDERS_FILE": "p.yaml", "OBSERVABILITY_SINK": "redis"}},
		{"unknown sink", map[string]string{"PROVIDERS_FILE": "p.yaml", "OBSERVABILITY_SINK": "s3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PROVIDERS_FILE", "DATABASE_URL", "ENCRYPTION_KEY", "REDIS_ADDRESS", "OBSERVABILITY_SINK"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadProviderConfigs(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - id: openai-main
    type: openai
    api_key: ${TEST_OPENAI_KEY}
    cache_identifier: workspace-1
  - id: local
    type: ollama
  - id: lmstudio
    type: openai-compatible
    base_url: http://localhost:1234/v1
    display_name: LM Studio
`), 0o600))

	configs, err := LoadProviderConfigs(path)
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, models.ProviderConfig{
		ID:              "openai-main",
		Type:            models.ProviderTypeOpenAI,
		APIKey:          "sk-from-env",
		CacheIdentifier: "workspace-1",
	}, configs[0])
	assert.Equal(t, models.NotNeededAPIKey, configs[1].APIKey)
	assert.Equal(t, "LM Studio", configs[2].DisplayName)
}

func TestParseProviderConfigs_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown type":        "providers:\n  - id: a\n    type: azure\n",
		"missing base url":    "providers:\n  - id: a\n    type: openai-compatible\n",
		"duplicate id":        "providers:\n  - id: a\n    type: openai\n  - id: a\n    type: x-ai\n",
		"unknown field":       "providers:\n  - id: a\n    type: openai\n    apikey: x\n",
		"not a provider list": "providers: nope\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProviderConfigs([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  - id: a\n    type: openai\n    api_key: k\n"), 0o600))

	src := FileSource{Path: path}
	configs, err := src.ProviderConfigs(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, 1)

	require.NoError(t, os.WriteFile(path, []byte("providers:\n  - id: b\n    type: x-ai\n    api_key: k\n"), 0o600))
	configs, err = src.ProviderConfigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", configs[0].ID)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}.ProviderConfigs(context.Background())
	assert.Error(t, err)
}
