package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model_gateway/internal/models"
)

func ids(configs []models.ProviderConfig) []string {
	out := make([]string, 0, len(configs))
	for _, c := range configs {
		out = append(out, c.ID)
	}
	return out
}

func TestSelectProviders(t *testing.T) {
	configs := []models.ProviderConfig{
		{ID: "anthropic-1", Type: models.ProviderTypeAnthropic},
		{ID: "openai-1", Type: models.ProviderTypeOpenAI},
		{ID: "google-1", Type: models.ProviderTypeGoogle},
		{ID: "openai-2", Type: models.ProviderTypeOpenAI},
	}

	tests := []struct {
		name      string
		preferred Preference
		n         int
		want      []string
	}{
		{
			name:      "unconfigured preferred config falls back to configured priority types",
			preferred: Preference{ConfigID: "vercel-999", Type: models.ProviderTypeVercel},
			want:      []string{"google-1", "openai-1"},
		},
		{
			name:      "exact config id wins",
			preferred: Preference{ConfigID: "openai-2", Type: models.ProviderTypeOpenAI},
			want:      []string{"openai-2", "google-1"},
		},
		{
			name:      "preferred type when id unknown",
			preferred: Preference{ConfigID: "gone", Type: models.ProviderTypeOpenAI},
			want:      []string{"openai-1", "google-1"},
		},
		{
			name:      "ineligible preferred config is skipped",
			preferred: Preference{ConfigID: "anthropic-1", Type: models.ProviderTypeAnthropic},
			want:      []string{"google-1", "openai-1"},
		},
		{
			name: "n larger than configured types",
			n:    5,
			want: []string{"google-1", "openai-1"},
		},
		{
			name:      "single candidate",
			preferred: Preference{ConfigID: "openai-2"},
			n:         1,
			want:      []string{"openai-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectProviders(tt.preferred, configs, ImageGenerationPriority, tt.n)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelectProviders_NothingEligible(t *testing.T) {
	configs := []models.ProviderConfig{{ID: "an", Type: models.ProviderTypeAnthropic}}
	assert.Empty(t, SelectProviders(Preference{}, configs, WebSearchPriority, 2))
}

func TestTryInOrder(t *testing.T) {
	candidates := []models.ProviderConfig{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	var tried []string

	got, err := TryInOrder(context.Background(), candidates, func(_ context.Context, cfg models.ProviderConfig) (string, error) {
		tried = append(tried, cfg.ID)
		if cfg.ID == "b" {
			return "image from b", nil
		}
		return "", errors.New("unsupported")
	})
	require.NoError(t, err)
	assert.Equal(t, "image from b", got)
	assert.Equal(t, []string{"a", "b"}, tried)

	_, err = TryInOrder(context.Background(), candidates, func(context.Context, models.ProviderConfig) (int, error) {
		return 0, models.NewHTTPStatusError("https://x", 502)
	})
	assert.True(t, models.IsKind(err, models.ErrorKindNotFound))
	assert.True(t, models.IsKind(errors.Unwrap(err), models.ErrorKindFetch))

	_, err = TryInOrder(context.Background(), nil, func(context.Context, models.ProviderConfig) (int, error) {
		return 1, nil
	})
	assert.True(t, models.IsKind(err, models.ErrorKindNotFound))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = TryInOrder(ctx, candidates, func(context.Context, models.ProviderConfig) (int, error) {
		t.Fatal("must not be called after cancellation")
		return 0, nil
	})
	assert.True(t, models.IsKind(err, models.ErrorKindFetch))
}

func TestSelectForCapability(t *testing.T) {
	configs := []models.ProviderConfig{
		{ID: "anthropic-1", Type: models.ProviderTypeAnthropic, APIKey: "sk-ant"},
		{ID: "openai-1", Type: models.ProviderTypeOpenAI, APIKey: "sk-expired"},
		{ID: "openrouter-1", Type: models.ProviderTypeOpenRouter, APIKey: "sk-or"},
		{ID: "google-1", Type: models.ProviderTypeGoogle, APIKey: "AIza"},
	}
	adapter := &fakeAdapter{rejectedKeys: map[string]bool{"sk-expired": true}}
	svc := NewService(fakeLookup{adapter: adapter}, Options{})
	ctx := context.Background()

	// Preferred config fails verification, so the next candidate by priority wins.
	got, err := svc.SelectForCapability(ctx, configs, models.CapabilityWebSearch, Preference{ConfigID: "openai-1"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter-1", got.ID)

	got, err = svc.SelectForCapability(ctx, configs, models.CapabilityImageGeneration, Preference{ConfigID: "google-1"})
	require.NoError(t, err)
	assert.Equal(t, "google-1", got.ID)

	// Anthropic is not eligible for web search, so the preference is ignored.
	got, err = svc.SelectForCapability(ctx, configs, models.CapabilityWebSearch, Preference{ConfigID: "anthropic-1"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter-1", got.ID)

	_, err = svc.SelectForCapability(ctx, configs, models.CapabilityChatCompletions, Preference{})
	assert.True(t, models.IsKind(err, models.ErrorKindNotFound))

	adapter.rejectedKeys["sk-or"] = true
	adapter.rejectedKeys["AIza"] = true
	_, err = svc.SelectForCapability(ctx, configs, models.CapabilityWebSearch, Preference{ConfigID: "openai-1"})
	assert.True(t, models.IsKind(err, models.ErrorKindNotFound))
	assert.True(t, models.IsKind(errors.Unwrap(err), models.ErrorKindVerificationFailed))
}
