package providers

import "model_gateway/internal/models"

var (
	allCapabilities = []models.Capability{
		models.CapabilityChatCompletions,
		models.CapabilityImageGeneration,
		models.CapabilityWebSearch,
	}
)

var metadataByType = map[models.ProviderType]models.ProviderMetadata{
	models.ProviderTypeAnthropic: {
		Type:           models.ProviderTypeAnthropic,
		Name:           "Anthropic",
		DefaultBaseURL: "https://api.anthropic.com",
		APIKeyFormat:   "sk-ant-",
		APIKeyURL:      "https://console.anthropic.com/settings/keys",
		RequiresAPIKey: true,
		EnvPrefix:      "ANTHROPIC",
	},
	models.ProviderTypeFireworks: {
		Type:           models.ProviderTypeFireworks,
		Name:           "Fireworks",
		DefaultBaseURL: "https://api.fireworks.ai/inference/v1",
		APIKeyFormat:   "fw_",
		APIKeyURL:      "https://fireworks.ai/account/api-keys",
		RequiresAPIKey: true,
		Capabilities:   []models.Capability{models.CapabilityChatCompletions, models.CapabilityImageGeneration},
		EnvPrefix:      "FIREWORKS",
	},
	models.ProviderTypeGoogle: {
		Type:            models.ProviderTypeGoogle,
		Name:            "Google",
		DefaultBaseURL:  "https://generativelanguage.googleapis.com",
		APIKeyFormat:    "AIza",
		APIKeyURL:       "https://aistudio.google.com/app/apikey",
		RequiresAPIKey:  true,
		Capabilities:    allCapabilities,
		EnvPrefix:       "GOOGLE_GENERATIVE_AI",
		LegacyEnvPrefix: "GEMINI",
	},
	models.ProviderTypeOllama: {
		Type:           models.ProviderTypeOllama,
		Name:           "Ollama",
		DefaultBaseURL: "http://localhost:11434",
		RequiresAPIKey: false,
		Capabilities:   []models.Capability{models.CapabilityChatCompletions},
		EnvPrefix:      "OLLAMA",
	},
	models.ProviderTypeOpenAI: {
		Type:           models.ProviderTypeOpenAI,
		Name:           "OpenAI",
		DefaultBaseURL: "https://api.openai.com/v1",
		APIKeyFormat:   "sk-",
		APIKeyURL:      "https://platform.openai.com/api-keys",
		RequiresAPIKey: true,
		Capabilities:   allCapabilities,
		EnvPrefix:      "OPENAI",
	},
	models.ProviderTypeOpenAICompatible: {
		Type:           models.ProviderTypeOpenAICompatible,
		Name:           "OpenAI Compatible",
		RequiresAPIKey: false,
		Capabilities:   []models.Capability{models.CapabilityChatCompletions},
	},
	models.ProviderTypeOpenRouter: {
		Type:               models.ProviderTypeOpenRouter,
		Name:               "OpenRouter",
		DefaultBaseURL:     "https://openrouter.ai/api/v1",
		APIKeyFormat:       "sk-or-",
		APIKeyURL:          "https://openrouter.ai/settings/keys",
		RequiresAPIKey:     true,
		Capabilities:       allCapabilities,
		EnvPrefix:          "OPENROUTER",
		AttributionHeaders: true,
	},
	models.ProviderTypeQuests: {
		Type:               models.ProviderTypeQuests,
		Name:               "Quests",
		DefaultBaseURL:     "https://api.quests.dev/gateway/v1",
		APIKeyFormat:       "qst-",
		APIKeyURL:          "https://quests.dev/settings/keys",
		RequiresAPIKey:     true,
		Capabilities:       allCapabilities,
		EnvPrefix:          "QUESTS",
		AttributionHeaders: true,
	},
	models.ProviderTypeVercel: {
		Type:               models.ProviderTypeVercel,
		Name:               "Vercel AI Gateway",
		DefaultBaseURL:     "https://ai-gateway.vercel.sh/v1",
		APIKeyFormat:       "vck_",
		APIKeyURL:          "https://vercel.com/dashboard/ai/api-keys",
		RequiresAPIKey:     true,
		Capabilities:       allCapabilities,
		EnvPrefix:          "AI_GATEWAY",
		AttributionHeaders: true,
	},
	models.ProviderTypeXAI: {
		Type:           models.ProviderTypeXAI,
		Name:           "xAI",
		DefaultBaseURL: "https://api.x.ai/v1",
		APIKeyFormat:   "xai-",
		APIKeyURL:      "https://console.x.ai",
		RequiresAPIKey: true,
		Capabilities:   allCapabilities,
		EnvPrefix:      "XAI",
	},
}

// Metadata returns the static metadata of a provider type. Unknown types
// yield a zero value with only Type set.
func Metadata(t models.ProviderType) models.ProviderMetadata {
	if meta, ok := metadataByType[t]; ok {
		return meta
	}
	return models.ProviderMetadata{Type: t}
}

// AllMetadata returns metadata for every provider type in a stable order.
func AllMetadata() []models.ProviderMetadata {
	out := make([]models.ProviderMetadata, 0, len(models.AllProviderTypes))
	for _, t := range models.AllProviderTypes {
		out = append(out, Metadata(t))
	}
	return out
}
