package providers

import (
	"net/http"
	"strings"

	"model_gateway/internal/models"
)

// HeaderAuth places an API key in a single request header, optionally
// behind a prefix such as "Bearer ".
type HeaderAuth struct {
	Header string
	Prefix string
}

var (
	BearerAuth     = HeaderAuth{Header: "Authorization", Prefix: "Bearer "}
	XAPIKeyAuth    = HeaderAuth{Header: "x-api-key"}
	GoogAPIKeyAuth = HeaderAuth{Header: "x-goog-api-key"}
)

// Apply sets the key on h. Empty keys and the NOT_NEEDED sentinel are skipped.
func (a HeaderAuth) Apply(h http.Header, apiKey string) {
	if apiKey == "" || apiKey == models.NotNeededAPIKey {
		return
	}
	h.Set(a.Header, a.Prefix+apiKey)
}

// Extract reads a key from h, returning "" if the header is missing or
// lacks the prefix.
func (a HeaderAuth) Extract(h http.Header) string {
	v := h.Get(a.Header)
	if v == "" {
		return ""
	}
	if a.Prefix == "" {
		return v
	}
	if len(v) < len(a.Prefix) || !strings.EqualFold(v[:len(a.Prefix)], a.Prefix) {
		return ""
	}
	return strings.TrimSpace(v[len(a.Prefix):])
}

// InboundAuthHeaders lists every header a caller might use to present a
// credential. The proxy strips all of them before forwarding.
var InboundAuthHeaders = []string{"Authorization", "x-api-key", "x-goog-api-key"}
