// Package resolver finds models across provider catalogs and picks fallback
// providers for capabilities only some vendors offer.
package resolver

import "model_gateway/internal/models"

// Match is the result of FindByString. Exact is true only for a URI hit.
type Match struct {
	Model *models.Model
	Exact bool
}

// Found reports whether any model matched.
func (m Match) Found() bool {
	return m.Model != nil
}

// FindByString looks token up by URI, then canonical id, then provider id.
// The first model in list order wins within a tier; there is no fuzzy matching.
func FindByString(token string, list []models.Model) Match {
	if token == "" {
		return Match{}
	}
	for i := range list {
		if list[i].URI == token {
			return Match{Model: &list[i], Exact: true}
		}
	}
	for i := range list {
		if list[i].CanonicalID == token {
			return Match{Model: &list[i]}
		}
	}
	for i := range list {
		if list[i].ProviderID == token {
			return Match{Model: &list[i]}
		}
	}
	return Match{}
}
