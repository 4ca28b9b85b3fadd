package models

import "fmt"

// ProviderType enumerates supported provider types.
type ProviderType string

const (
	ProviderTypeAnthropic        ProviderType = "anthropic"
	ProviderTypeFireworks        ProviderType = "fireworks"
	ProviderTypeGoogle           ProviderType = "google"
	ProviderTypeOllama           ProviderType = "ollama"
	ProviderTypeOpenAI           ProviderType = "openai"
	ProviderTypeOpenAICompatible ProviderType = "openai-compatible"
	ProviderTypeOpenRouter       ProviderType = "openrouter"
	ProviderTypeQuests           ProviderType = "quests"
	ProviderTypeVercel           ProviderType = "vercel"
	ProviderTypeXAI              ProviderType = "x-ai"
)

// AllProviderTypes lists every provider type in a stable order.
var AllProviderTypes = []ProviderType{
	ProviderTypeAnthropic,
	ProviderTypeFireworks,
	ProviderTypeGoogle,
	ProviderTypeOllama,
	ProviderTypeOpenAI,
	ProviderTypeOpenAICompatible,
	ProviderTypeOpenRouter,
	ProviderTypeQuests,
	ProviderTypeVercel,
	ProviderTypeXAI,
}

// ParseProviderType converts a string into a known ProviderType.
func ParseProviderType(s string) (ProviderType, error) {
	for _, t := range AllProviderTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown provider type: %q", s)
}

// Valid reports whether t is one of the known provider types.
func (t ProviderType) Valid() bool {
	_, err := ParseProviderType(string(t))
	return err == nil
}

// NotNeededAPIKey marks providers that accept unauthenticated requests.
const NotNeededAPIKey = "NOT_NEEDED"

// ProviderConfig is one user-configured connection to a provider.
type ProviderConfig struct {
	ID              string       `yaml:"id" json:"id" db:"id"`
	Type            ProviderType `yaml:"type" json:"type" db:"provider_type"`
	APIKey          string       `yaml:"api_key" json:"-" db:"api_key"`
	BaseURL         string       `yaml:"base_url,omitempty" json:"base_url,omitempty" db:"base_url"`
	DisplayName     string       `yaml:"display_name,omitempty" json:"display_name,omitempty" db:"display_name"`
	SubType         string       `yaml:"sub_type,omitempty" json:"sub_type,omitempty" db:"sub_type"`
	CacheIdentifier string       `yaml:"cache_identifier,omitempty" json:"cache_identifier,omitempty" db:"cache_identifier"`
}

// Validate checks the fields every provider config must carry.
func (c ProviderConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("provider config id is required")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("provider config %s: unknown type %q", c.ID, c.Type)
	}
	if c.Type == ProviderTypeOpenAICompatible && c.BaseURL == "" {
		return fmt.Errorf("provider config %s: base_url is required for %s", c.ID, c.Type)
	}
	return nil
}

// Capability is a coarse feature flag on a provider type.
type Capability string

const (
	CapabilityChatCompletions Capability = "chat-completions"
	CapabilityImageGeneration Capability = "image-generation"
	CapabilityWebSearch       Capability = "web-search"
)

// ProviderMetadata is static, read-only information about a provider type.
type ProviderMetadata struct {
	Type           ProviderType
	Name           string
	DefaultBaseURL string
	APIKeyFormat   string
	APIKeyURL      string
	RequiresAPIKey bool
	Capabilities   []Capability
	// EnvPrefix is used for {PREFIX}_API_KEY and {PREFIX}_BASE_URL. Empty means
	// the provider type is not exposed through environment variables.
	EnvPrefix string
	// LegacyEnvPrefix duplicates the env vars under an older SDK naming.
	LegacyEnvPrefix string
	// AttributionHeaders marks aggregators that accept HTTP-Referer/X-Title.
	AttributionHeaders bool
}

// HasCapability reports whether the provider type advertises c.
func (m ProviderMetadata) HasCapability(c Capability) bool {
	for _, have := range m.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Credits is the remaining balance reported by aggregator providers.
type Credits struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}
