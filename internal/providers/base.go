package providers

import (
	"net/http"

	"github.com/sashabaranov/go-openai"

	"model_gateway/internal/models"
)

// baseAdapter carries the behavior shared by OpenAI-shaped vendors: bearer
// auth, a plain base+path join, and the standard env contract. Vendors embed
// it and override what differs.
type baseAdapter struct {
	adapterDeps
	providerType models.ProviderType
}

func (a baseAdapter) Type() models.ProviderType {
	return a.providerType
}

func (a baseAdapter) Metadata() models.ProviderMetadata {
	return Metadata(a.providerType)
}

func (a baseAdapter) BuildURL(baseURL, path string) string {
	return joinURL(baseURL, a.Metadata().DefaultBaseURL, path)
}

func (a baseAdapter) SetAuthHeaders(h http.Header, apiKey string) {
	BearerAuth.Apply(h, apiKey)
}

func (a baseAdapter) Env(gatewayBaseURL string, _ models.ProviderConfig) map[string]string {
	return envFor(a.Metadata(), gatewayBaseURL)
}

func (a baseAdapter) ChatClient(gatewayBaseURL string, cfg models.ProviderConfig) *openai.Client {
	return newChatClient(gatewayBaseURL, cfg)
}
