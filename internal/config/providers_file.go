package config

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"model_gateway/internal/models"
)

// providersFile is the on-disk shape of PROVIDERS_FILE.
type providersFile struct {
	Providers []models.ProviderConfig `yaml:"providers"`
}

// LoadProviderConfigs reads provider configs from a YAML file. ${VAR}
// references are expanded from the environment so keys need not live in
// the file.
func LoadProviderConfigs(path string) ([]models.ProviderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}
	return ParseProviderConfigs(raw)
}

// ParseProviderConfigs decodes and validates the YAML provider list.
func ParseProviderConfigs(raw []byte) ([]models.ProviderConfig, error) {
	expanded := os.ExpandEnv(string(raw))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var file providersFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse providers file: %w", err)
	}

	seen := make(map[string]bool, len(file.Providers))
	for i, cfg := range file.Providers {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", i, err)
		}
		if seen[cfg.ID] {
			return nil, fmt.Errorf("providers[%d]: duplicate id %q", i, cfg.ID)
		}
		seen[cfg.ID] = true

		if cfg.APIKey == "" && !requiresKey(cfg.Type) {
			file.Providers[i].APIKey = models.NotNeededAPIKey
		}
	}
	return file.Providers, nil
}

func requiresKey(t models.ProviderType) bool {
	switch t {
	case models.ProviderTypeOllama, models.ProviderTypeOpenAICompatible:
		return false
	}
	return true
}

// FileSource re-reads a provider file on every call. Wrap it in a
// providers.ReloadingSource to bound how often the file is read.
type FileSource struct {
	Path string
}

func (s FileSource) ProviderConfigs(context.Context) ([]models.ProviderConfig, error) {
	return LoadProviderConfigs(s.Path)
}
