package resolver

import (
	"context"
	"fmt"
	"sort"

	"model_gateway/internal/fetch"
	"model_gateway/internal/logging"
	"model_gateway/internal/metrics"
	"model_gateway/internal/modeluri"
	"model_gateway/internal/models"
	"model_gateway/internal/providers"
)

// AdapterLookup resolves the adapter serving a provider config.
type AdapterLookup interface {
	ForConfig(cfg models.ProviderConfig) (providers.Adapter, error)
}

// ProviderError attributes a catalog failure to one provider config.
type ProviderError struct {
	ConfigID     string              `json:"configId"`
	ProviderName string              `json:"providerName"`
	ProviderType models.ProviderType `json:"providerType"`
	Kind         models.ErrorKind    `json:"kind"`
	Message      string              `json:"message"`
}

// CatalogResult is a multi-provider catalog. A non-empty Errors list does
// not invalidate Models.
type CatalogResult struct {
	Models []models.Model  `json:"models"`
	Errors []ProviderError `json:"errors"`
}

// Options configures a Service. Zero values select defaults.
type Options struct {
	FanOutLimit int
	Metrics     metrics.Metrics
	Sink        logging.Sink
}

// Service aggregates catalogs and resolves model addresses.
type Service struct {
	adapters    AdapterLookup
	fanOutLimit int
	metrics     metrics.Metrics
	sink        logging.Sink
}

func NewService(adapters AdapterLookup, opts Options) *Service {
	if opts.FanOutLimit <= 0 {
		opts.FanOutLimit = fetch.DefaultConcurrency
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoopMetrics()
	}
	if opts.Sink == nil {
		opts.Sink = logging.NewNoopSink()
	}
	return &Service{
		adapters:    adapters,
		fanOutLimit: opts.FanOutLimit,
		metrics:     opts.Metrics,
		sink:        opts.Sink,
	}
}

// FetchCatalog returns one config's catalog.
func (s *Service) FetchCatalog(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error) {
	adapter, err := s.adapters.ForConfig(cfg)
	if err != nil {
		return nil, err
	}
	list, err := adapter.FetchModels(ctx, cfg)
	if err != nil {
		err = models.AsError(err)
		s.metrics.IncCatalogFetch(string(cfg.Type), string(models.KindOf(err)))
		return nil, err
	}
	s.metrics.IncCatalogFetch(string(cfg.Type), "")
	return list, nil
}

// FindByURI decodes uri, fetches the named config's catalog and returns the
// entry whose URI matches exactly.
func (s *Service) FindByURI(ctx context.Context, uri string, configs []models.ProviderConfig) (*models.Model, error) {
	parsed, err := modeluri.Decode(uri)
	if err != nil {
		return nil, err
	}

	cfg, ok := configByID(configs, parsed.Params.ProviderConfigID)
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("provider config %q not found", parsed.Params.ProviderConfigID))
	}

	list, err := s.FetchCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].URI == uri {
			return &list[i], nil
		}
	}
	return nil, models.NewNotFoundError(fmt.Sprintf("model %q not found", uri))
}

// FetchAll fetches every config's catalog concurrently. Each failure is
// attributed to its own config and never hides the others' models.
func (s *Service) FetchAll(ctx context.Context, configs []models.ProviderConfig) CatalogResult {
	outcomes := fetch.FanOut(ctx, s.fanOutLimit, configs, s.FetchCatalog)

	result := CatalogResult{Models: []models.Model{}, Errors: []ProviderError{}}
	for i, outcome := range outcomes {
		if outcome.Err == nil {
			result.Models = append(result.Models, outcome.Value...)
			continue
		}

		cfg := configs[i]
		typed := models.AsError(outcome.Err)
		result.Errors = append(result.Errors, ProviderError{
			ConfigID:     cfg.ID,
			ProviderName: providers.ProviderName(cfg),
			ProviderType: cfg.Type,
			Kind:         typed.Kind,
			Message:      typed.Error(),
		})

		logging.Logger().Warn().
			Err(typed).
			Str("config_id", cfg.ID).
			Str("provider_type", string(cfg.Type)).
			Msg("failed to fetch provider catalog")
		logging.CaptureException(ctx, s.sink, outcome.Err, logging.Event{
			ProviderType: cfg.Type,
			ConfigID:     cfg.ID,
		})
	}
	return result
}

// ChatConfigs filters configs down to those offering chat completions.
func ChatConfigs(configs []models.ProviderConfig) []models.ProviderConfig {
	out := make([]models.ProviderConfig, 0, len(configs))
	for _, cfg := range configs {
		if providers.Metadata(cfg.Type).HasCapability(models.CapabilityChatCompletions) {
			out = append(out, cfg)
		}
	}
	return out
}

// ChatModels aggregates chat-capable catalogs, keeps the first model per
// canonical id in config order, and sorts default before recommended before
// everything else.
func (s *Service) ChatModels(ctx context.Context, configs []models.ProviderConfig) CatalogResult {
	result := s.FetchAll(ctx, ChatConfigs(configs))

	seen := make(map[string]bool, len(result.Models))
	deduped := result.Models[:0:0]
	for _, m := range result.Models {
		if seen[m.CanonicalID] {
			continue
		}
		seen[m.CanonicalID] = true
		deduped = append(deduped, m)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return rank(deduped[i]) < rank(deduped[j])
	})
	result.Models = deduped
	return result
}

func rank(m models.Model) int {
	switch {
	case m.HasTag(models.ModelTagDefault):
		return 0
	case m.HasTag(models.ModelTagRecommended):
		return 1
	}
	return 2
}

// Resolution is a model matched to the config that serves it.
type Resolution struct {
	Model  models.Model
	Config models.ProviderConfig
	Exact  bool
}

// ResolveChatModel finds token across all chat-capable configs. Catalog
// failures of individual providers only narrow the search.
func (s *Service) ResolveChatModel(ctx context.Context, token string, configs []models.ProviderConfig) (*Resolution, error) {
	chat := ChatConfigs(configs)

	// A URI names its config, so only that catalog needs fetching.
	if parsed, err := modeluri.Decode(token); err == nil {
		if cfg, ok := configByID(chat, parsed.Params.ProviderConfigID); ok {
			m, err := s.FindByURI(ctx, token, []models.ProviderConfig{cfg})
			if err == nil {
				return &Resolution{Model: *m, Config: cfg, Exact: true}, nil
			}
		}
	}

	result := s.FetchAll(ctx, chat)
	match := FindByString(token, result.Models)
	if !match.Found() {
		return nil, models.NewNotFoundError(fmt.Sprintf("model %q not found", token))
	}
	cfg, ok := configByID(chat, match.Model.Params.ProviderConfigID)
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("provider config %q not found", match.Model.Params.ProviderConfigID))
	}
	return &Resolution{Model: *match.Model, Config: cfg, Exact: match.Exact}, nil
}

func configByID(configs []models.ProviderConfig, id string) (models.ProviderConfig, bool) {
	for _, cfg := range configs {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return models.ProviderConfig{}, false
}
