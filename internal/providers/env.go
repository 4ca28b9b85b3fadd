package providers

import "model_gateway/internal/models"

// EnvForProviderConfig returns the env vars for a single config.
func (r *Registry) EnvForProviderConfig(gatewayBaseURL string, cfg models.ProviderConfig) map[string]string {
	a, err := r.ForConfig(cfg)
	if err != nil {
		return map[string]string{}
	}
	return a.Env(gatewayBaseURL, cfg)
}

// EnvForProviderConfigs merges the env vars of all configs. When two configs
// share a vendor, the earlier one wins.
func (r *Registry) EnvForProviderConfigs(gatewayBaseURL string, configs []models.ProviderConfig) map[string]string {
	env := make(map[string]string)
	for _, cfg := range configs {
		for k, v := range r.EnvForProviderConfig(gatewayBaseURL, cfg) {
			if _, exists := env[k]; !exists {
				env[k] = v
			}
		}
	}
	return env
}
