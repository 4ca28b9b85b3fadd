package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"model_gateway/internal/logging"
	"model_gateway/internal/middleware"
	"model_gateway/internal/models"
	"model_gateway/internal/providers"
	"model_gateway/internal/utils"
)

// NewRouter creates the gateway's HTTP handler with all routes wired up.
func NewRouter(d *Dependencies) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, d)
	return middleware.RequestID(middleware.Recover(d.Sink)(mux))
}

func registerRoutes(mux *http.ServeMux, d *Dependencies) {
	p := d.PathPrefix

	// One subtree per vendor, each guarded by the header scheme its SDK uses
	for _, t := range models.AllProviderTypes {
		if t == models.ProviderTypeOpenAICompatible {
			continue
		}
		guard := middleware.InternalAuth(vendorAuthSchemes(t)...)
		mux.Handle(p+"/"+string(t)+"/", guard(d.vendorProxy(t)))
	}

	bearer := middleware.InternalAuth(providers.BearerAuth)
	mux.Handle("GET "+p+"/openai/models", bearer(http.HandlerFunc(d.handleModels)))
	mux.Handle("POST "+p+"/openai/chat/completions", bearer(http.HandlerFunc(d.handleChatCompletions)))
	mux.Handle("GET "+p+"/catalog", bearer(http.HandlerFunc(d.handleCatalog)))

	// Generic passthrough keyed by config id
	byConfig := middleware.InternalAuth(providers.BearerAuth, providers.XAPIKeyAuth)
	mux.Handle(p+"/providers/{configId}/", byConfig(http.HandlerFunc(d.handleConfigProxy)))

	// Host application proxy - public, it serves browser traffic
	if d.AppProxy != nil {
		mux.Handle(p+"/app/", d.AppProxy)
	}

	// Health check endpoint - public
	mux.HandleFunc("GET /health", d.handleHealth)

	// Metrics endpoint - public
	mux.Handle("GET /metrics", d.Metrics.HTTPHandler())

	mux.HandleFunc("/", d.handleNotFound)
}

// vendorAuthSchemes mirrors the credential header each vendor SDK sends.
func vendorAuthSchemes(t models.ProviderType) []providers.HeaderAuth {
	switch t {
	case models.ProviderTypeAnthropic:
		return []providers.HeaderAuth{providers.XAPIKeyAuth}
	case models.ProviderTypeGoogle:
		return []providers.HeaderAuth{providers.GoogAPIKeyAuth}
	case models.ProviderTypeFireworks,
		models.ProviderTypeOllama,
		models.ProviderTypeOpenAI,
		models.ProviderTypeOpenAICompatible,
		models.ProviderTypeOpenRouter,
		models.ProviderTypeQuests,
		models.ProviderTypeVercel,
		models.ProviderTypeXAI:
		return []providers.HeaderAuth{providers.BearerAuth}
	default:
		panic("httpapi: no auth scheme for provider type " + string(t))
	}
}

func firstConfigOfType(configs []models.ProviderConfig, t models.ProviderType) (models.ProviderConfig, bool) {
	for _, cfg := range configs {
		if cfg.Type == t {
			return cfg, true
		}
	}
	return models.ProviderConfig{}, false
}

func configByID(configs []models.ProviderConfig, id string) (models.ProviderConfig, bool) {
	for _, cfg := range configs {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return models.ProviderConfig{}, false
}

// trimMount strips the route mount point, always leaving a leading slash.
func trimMount(path, mount string) string {
	rest := strings.TrimPrefix(path, mount)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}

const healthCheckTimeout = 2 * time.Second

func (d *Dependencies) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	for _, hc := range d.HealthChecks {
		if err := hc.Check(ctx); err != nil {
			logging.Logger().Warn().Err(err).Str("dependency", hc.Name).Msg("health check failed")
			utils.RespondWithError(w, http.StatusServiceUnavailable, hc.Name+" unavailable")
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
