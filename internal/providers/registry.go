package providers

import (
	"fmt"

	"model_gateway/internal/catalog"
	"model_gateway/internal/models"
)

// Registry holds one adapter per provider type. It is built once at startup
// and is safe for concurrent use because adapters carry no mutable state.
type Registry struct {
	adapters map[models.ProviderType]Adapter
}

// NewRegistry constructs every adapter around a shared fetcher and builder.
func NewRegistry(fetcher Fetcher, builder *catalog.Builder) *Registry {
	if builder == nil {
		builder = catalog.NewBuilder()
	}
	deps := adapterDeps{fetcher: fetcher, builder: builder}

	r := &Registry{adapters: make(map[models.ProviderType]Adapter, len(models.AllProviderTypes))}
	for _, t := range models.AllProviderTypes {
		r.adapters[t] = newAdapter(t, deps)
	}
	return r
}

func newAdapter(t models.ProviderType, deps adapterDeps) Adapter {
	switch t {
	case models.ProviderTypeAnthropic:
		return newAnthropicAdapter(deps)
	case models.ProviderTypeFireworks:
		return newFireworksAdapter(deps)
	case models.ProviderTypeGoogle:
		return newGoogleAdapter(deps)
	case models.ProviderTypeOllama:
		return newOllamaAdapter(deps)
	case models.ProviderTypeOpenAI:
		return newOpenAIAdapter(deps)
	case models.ProviderTypeOpenAICompatible:
		return newOpenAICompatibleAdapter(deps)
	case models.ProviderTypeOpenRouter:
		return newOpenRouterAdapter(deps)
	case models.ProviderTypeQuests:
		return newQuestsAdapter(deps)
	case models.ProviderTypeVercel:
		return newVercelAdapter(deps)
	case models.ProviderTypeXAI:
		return newXAIAdapter(deps)
	default:
		panic(fmt.Sprintf("providers: no adapter for provider type %q", t))
	}
}

// Get returns the adapter for t, or false for an unknown type.
func (r *Registry) Get(t models.ProviderType) (Adapter, bool) {
	a, ok := r.adapters[t]
	return a, ok
}

// ForConfig returns the adapter serving cfg.
func (r *Registry) ForConfig(cfg models.ProviderConfig) (Adapter, error) {
	a, ok := r.adapters[cfg.Type]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("no adapter for provider type %q", cfg.Type))
	}
	return a, nil
}
