package models

import (
	"testing"
)

func TestProviderType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		provider ProviderType
		expected string
	}{
		{"Anthropic", ProviderTypeAnthropic, "anthropic"},
		{"Fireworks", ProviderTypeFireworks, "fireworks"},
		{"Google", ProviderTypeGoogle, "google"},
		{"Ollama", ProviderTypeOllama, "ollama"},
		{"OpenAI", ProviderTypeOpenAI, "openai"},
		{"OpenAICompatible", ProviderTypeOpenAICompatible, "openai-compatible"},
		{"OpenRouter", ProviderTypeOpenRouter, "openrouter"},
		{"Quests", ProviderTypeQuests, "quests"},
		{"Vercel", ProviderTypeVercel, "vercel"},
		{"XAI", ProviderTypeXAI, "x-ai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.provider) != tt.expected {
				t.Errorf("ProviderType = %s, want %s", tt.provider, tt.expected)
			}
			parsed, err := ParseProviderType(tt.expected)
			if err != nil {
				t.Fatalf("ParseProviderType(%q) error = %v", tt.expected, err)
			}
			if parsed != tt.provider {
				t.Errorf("ParseProviderType(%q) = %s", tt.expected, parsed)
			}
		})
	}

	if len(AllProviderTypes) != len(tests) {
		t.Errorf("AllProviderTypes has %d entries, want %d", len(AllProviderTypes), len(tests))
	}
}

func TestParseProviderType_Unknown(t *testing.T) {
	for _, raw := range []string{"", "vertexai", "OpenAI", "xai"} {
		if _, err := ParseProviderType(raw); err == nil {
			t.Errorf("ParseProviderType(%q) expected error", raw)
		}
	}
}

func TestProviderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr bool
	}{
		{"valid", ProviderConfig{ID: "openai-1", Type: ProviderTypeOpenAI}, false},
		{"missing id", ProviderConfig{Type: ProviderTypeOpenAI}, true},
		{"unknown type", ProviderConfig{ID: "x", Type: "bedrock"}, true},
		{"compatible without base url", ProviderConfig{ID: "local", Type: ProviderTypeOpenAICompatible}, true},
		{"compatible with base url", ProviderConfig{ID: "local", Type: ProviderTypeOpenAICompatible, BaseURL: "http://localhost:1234/v1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProviderMetadata_HasCapability(t *testing.T) {
	meta := ProviderMetadata{Capabilities: []Capability{CapabilityChatCompletions}}
	if !meta.HasCapability(CapabilityChatCompletions) {
		t.Error("expected chat-completions capability")
	}
	if meta.HasCapability(CapabilityWebSearch) {
		t.Error("unexpected web-search capability")
	}
}
