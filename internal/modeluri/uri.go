// Package modeluri encodes and decodes model URIs.
//
// A model URI has the form author/canonicalId?provider=..&providerConfigId=..[&providerSubType=..]
// and is the only model identifier exposed outside the gateway core.
package modeluri

import (
	"fmt"
	"net/url"
	"strings"

	"model_gateway/internal/models"
)

const (
	paramProvider         = "provider"
	paramProviderConfigID = "providerConfigId"
	paramProviderSubType  = "providerSubType"
)

// Parsed is a decoded model URI.
type Parsed struct {
	Author      string
	CanonicalID string
	Params      models.ModelParams
}

// Encode builds the URI for a model. Empty parameters are omitted and
// parameters are sorted by key.
func Encode(author, canonicalID string, params models.ModelParams) string {
	values := url.Values{}
	if params.Provider != "" {
		values.Set(paramProvider, string(params.Provider))
	}
	if params.ProviderConfigID != "" {
		values.Set(paramProviderConfigID, params.ProviderConfigID)
	}
	if params.ProviderSubType != "" {
		values.Set(paramProviderSubType, params.ProviderSubType)
	}

	uri := author + "/" + canonicalID
	if query := values.Encode(); query != "" {
		uri += "?" + query
	}
	return uri
}

// EncodeModel builds the URI from a model's own fields.
func EncodeModel(m models.Model) string {
	return Encode(m.Author, m.CanonicalID, m.Params)
}

// Decode parses a model URI. It fails with a Parse error when the
// author/canonicalId path is malformed, the query is missing, the provider
// is not a known type, or providerConfigId is absent.
func Decode(uri string) (Parsed, error) {
	path, query, hasQuery := strings.Cut(uri, "?")
	author, canonicalID, ok := strings.Cut(path, "/")
	if !ok || author == "" || canonicalID == "" {
		return Parsed{}, models.NewParseError(fmt.Sprintf("invalid model uri %q: expected author/canonicalId", uri), nil)
	}
	if !hasQuery || query == "" {
		return Parsed{}, models.NewParseError(fmt.Sprintf("invalid model uri %q: missing parameters", uri), nil)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return Parsed{}, models.NewParseError(fmt.Sprintf("invalid model uri %q", uri), err)
	}

	providerType, err := models.ParseProviderType(values.Get(paramProvider))
	if err != nil {
		return Parsed{}, models.NewParseError(fmt.Sprintf("invalid model uri %q", uri), err)
	}

	configID := values.Get(paramProviderConfigID)
	if configID == "" {
		return Parsed{}, models.NewParseError(fmt.Sprintf("invalid model uri %q: missing %s", uri, paramProviderConfigID), nil)
	}

	return Parsed{
		Author:      author,
		CanonicalID: canonicalID,
		Params: models.ModelParams{
			Provider:         providerType,
			ProviderConfigID: configID,
			ProviderSubType:  values.Get(paramProviderSubType),
		},
	}, nil
}

// Migrate rewrites the legacy URI shape, whose only parameter is a
// provider holding a provider-config id, into the current shape. Any other
// input fails with a Parse error.
func Migrate(uri string, configs []models.ProviderConfig) (string, error) {
	path, query, hasQuery := strings.Cut(uri, "?")
	author, canonicalID, ok := strings.Cut(path, "/")
	if !ok || author == "" || canonicalID == "" || !hasQuery {
		return "", models.NewParseError(fmt.Sprintf("cannot migrate model uri %q", uri), nil)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", models.NewParseError(fmt.Sprintf("cannot migrate model uri %q", uri), err)
	}
	if len(values) != 1 || len(values[paramProvider]) != 1 {
		return "", models.NewParseError(fmt.Sprintf("cannot migrate model uri %q: not a legacy uri", uri), nil)
	}

	configID := values.Get(paramProvider)
	for _, cfg := range configs {
		if cfg.ID == configID {
			return Encode(author, canonicalID, models.ModelParams{
				Provider:         cfg.Type,
				ProviderConfigID: cfg.ID,
				ProviderSubType:  cfg.SubType,
			}), nil
		}
	}

	return "", models.NewParseError(fmt.Sprintf("cannot migrate model uri %q: unknown provider config %q", uri, configID), nil)
}
