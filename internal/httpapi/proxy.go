package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"model_gateway/internal/logging"
	"model_gateway/internal/middleware"
	"model_gateway/internal/models"
	"model_gateway/internal/providers"
	"model_gateway/internal/utils"
)

// vendorProxy forwards everything under /{type}/ to the first config of
// that type.
func (d *Dependencies) vendorProxy(t models.ProviderType) http.Handler {
	mount := d.PathPrefix + "/" + string(t)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configs, err := d.Configs.ProviderConfigs(r.Context())
		if err != nil {
			d.internalError(w, r, err)
			return
		}

		cfg, ok := firstConfigOfType(configs, t)
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("No provider configured for %s", t))
			return
		}

		d.forward(w, r, cfg, trimMount(r.URL.Path, mount))
	})
}

// handleConfigProxy forwards everything under /providers/{configId}/.
func (d *Dependencies) handleConfigProxy(w http.ResponseWriter, r *http.Request) {
	configID := r.PathValue("configId")

	configs, err := d.Configs.ProviderConfigs(r.Context())
	if err != nil {
		d.internalError(w, r, err)
		return
	}

	cfg, ok := configByID(configs, configID)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("No provider config %s", configID))
		return
	}

	d.forward(w, r, cfg, trimMount(r.URL.Path, d.PathPrefix+"/providers/"+configID))
}

// forward proxies r to cfg's vendor at the vendor-relative path. The
// inbound credential is replaced by the config's real key and the response
// is streamed back as it arrives.
func (d *Dependencies) forward(w http.ResponseWriter, r *http.Request, cfg models.ProviderConfig, path string) {
	adapter, err := d.Registry.ForConfig(cfg)
	if err != nil {
		d.internalError(w, r, err)
		return
	}

	target, err := url.Parse(adapter.BuildURL(cfg.BaseURL, path))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid upstream path")
		return
	}
	if r.URL.RawQuery != "" {
		if target.RawQuery == "" {
			target.RawQuery = r.URL.RawQuery
		} else {
			target.RawQuery += "&" + r.URL.RawQuery
		}
	}

	meta := adapter.Metadata()
	requestID := middleware.GetRequestID(r.Context())
	start := time.Now()
	status := http.StatusBadGateway

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL = target
			pr.Out.Host = ""
			for _, h := range providers.InboundAuthHeaders {
				pr.Out.Header.Del(h)
			}
			adapter.SetAuthHeaders(pr.Out.Header, cfg.APIKey)
			if meta.AttributionHeaders {
				d.setAttribution(pr.Out.Header)
			}
			if requestID != "" {
				pr.Out.Header.Set(middleware.RequestIDHeader, requestID)
			}
		},
		Transport:     d.Transport,
		FlushInterval: -1,
		ModifyResponse: func(resp *http.Response) error {
			status = resp.StatusCode
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			logging.Logger().Warn().
				Err(err).
				Str("request_id", requestID).
				Str("config_id", cfg.ID).
				Str("provider_type", string(cfg.Type)).
				Str("url", target.Redacted()).
				Msg("upstream request failed")
			utils.RespondWithError(w, http.StatusBadGateway, "Upstream request failed")
		},
	}

	proxy.ServeHTTP(w, r)

	duration := time.Since(start)
	d.Metrics.ObserveProxyRequest(string(cfg.Type), status, duration)
	logging.Logger().Debug().
		Str("request_id", requestID).
		Str("config_id", cfg.ID).
		Str("provider_type", string(cfg.Type)).
		Str("method", r.Method).
		Str("path", path).
		Int("status", status).
		Dur("duration", duration).
		Msg("proxied request")
}

func (d *Dependencies) setAttribution(h http.Header) {
	if d.Attribution.Referer != "" {
		h.Set("HTTP-Referer", d.Attribution.Referer)
	}
	if d.Attribution.Title != "" {
		h.Set("X-Title", d.Attribution.Title)
	}
}

// internalError reports an unexpected failure and answers 500.
func (d *Dependencies) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Logger().Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	logging.CaptureException(r.Context(), d.Sink, err, logging.Event{
		RequestID: middleware.GetRequestID(r.Context()),
		Method:    r.Method,
		Path:      r.URL.Path,
	})
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// handleNotFound answers unmatched routes and reports them.
func (d *Dependencies) handleNotFound(w http.ResponseWriter, r *http.Request) {
	d.Metrics.IncUnmatchedRoute()
	ev := &logging.Event{
		Timestamp: time.Now(),
		Kind:      logging.EventUnmatchedRoute,
		RequestID: middleware.GetRequestID(r.Context()),
		Method:    r.Method,
		Path:      r.URL.Path,
	}
	if err := d.Sink.Enqueue(r.Context(), ev); err != nil {
		logging.Logger().Warn().Err(err).Msg("failed to enqueue unmatched route event")
	}
	utils.RespondWithError(w, http.StatusNotFound, "Not found")
}
