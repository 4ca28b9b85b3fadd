package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"model_gateway/internal/fetch"
	"model_gateway/internal/models"
)

// VerifyTimeout bounds every API key verification call.
const VerifyTimeout = 10 * time.Second

// Fetcher performs outbound JSON GETs for adapters.
type Fetcher interface {
	GetJSON(ctx context.Context, req fetch.Request) ([]byte, error)
}

// Adapter is implemented once per provider type. Adapters are stateless:
// everything per-connection comes from the ProviderConfig passed in.
type Adapter interface {
	Type() models.ProviderType
	Metadata() models.ProviderMetadata

	// BuildURL joins baseURL (or the provider default when empty) with a
	// vendor-relative path, applying any vendor path rewriting.
	BuildURL(baseURL, path string) string

	// SetAuthHeaders applies the vendor's auth scheme. Empty keys and the
	// NOT_NEEDED sentinel leave h untouched.
	SetAuthHeaders(h http.Header, apiKey string)

	// FetchModels lists the provider's catalog. Errors are *models.Error of
	// kind Fetch or Parse.
	FetchModels(ctx context.Context, cfg models.ProviderConfig) ([]models.Model, error)

	// VerifyAPIKey returns nil or a VerificationFailed error, within VerifyTimeout.
	VerifyAPIKey(ctx context.Context, apiKey, baseURL string) error

	// Env returns the environment variables that point a vendor SDK at the
	// gateway instead of the vendor.
	Env(gatewayBaseURL string, cfg models.ProviderConfig) map[string]string

	// ChatClient builds an OpenAI-compatible SDK client that talks to this
	// provider config through the gateway.
	ChatClient(gatewayBaseURL string, cfg models.ProviderConfig) *openai.Client
}

// CreditsFetcher is implemented by providers that report a prepaid balance.
type CreditsFetcher interface {
	FetchCredits(ctx context.Context, cfg models.ProviderConfig) (*models.Credits, error)
}

// RequestOptioner is implemented by providers that take extra fields in
// chat completion bodies, such as cache or session identifiers.
type RequestOptioner interface {
	ChatRequestOptions(cfg models.ProviderConfig) map[string]any
}

// ProviderName is the display name of a config, falling back to the type name.
func ProviderName(cfg models.ProviderConfig) string {
	if cfg.DisplayName != "" {
		return cfg.DisplayName
	}
	return Metadata(cfg.Type).Name
}
