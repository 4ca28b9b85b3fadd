// Package catalog turns raw vendor model listings into tagged catalog entries.
package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"model_gateway/internal/modeluri"
	"model_gateway/internal/models"
)

// RawModel is one entry of a vendor's model listing, before canonicalization.
type RawModel struct {
	// ID is the vendor's own id and is used verbatim as the model's providerId.
	ID string
	// LocalID is the id without any author prefix. Derived from ID when empty.
	LocalID  string
	Author   string
	Name     string
	Created  *time.Time
	Features []models.ModelFeature
	Source   json.RawMessage
}

// Builder assembles catalog entries. Now is injectable for the recency tag.
type Builder struct {
	Now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// Build canonicalizes raw, keeps the latest snapshot per canonical id,
// derives features and tags, and encodes each model's URI. Vendor order
// is preserved.
func (b *Builder) Build(cfg models.ProviderConfig, providerName string, raw []RawModel) []models.Model {
	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}

	normalized := make([]RawModel, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" {
			continue
		}
		normalized = append(normalized, normalize(r, cfg.Type))
	}

	latest := LatestSnapshots(normalized)
	out := make([]models.Model, 0, len(latest))
	for _, r := range latest {
		canonicalID := Canonicalize(r.LocalID)

		features := r.Features
		if len(features) == 0 {
			features = Features(canonicalID)
		}
		name := r.Name
		if name == "" {
			name = canonicalID
		}

		m := models.Model{
			Author:       r.Author,
			CanonicalID:  canonicalID,
			ProviderID:   r.ID,
			Name:         name,
			Features:     features,
			Tags:         DeriveTags(canonicalID, cfg.Type, r.Created, now),
			ProviderName: providerName,
			Params: models.ModelParams{
				Provider:         cfg.Type,
				ProviderConfigID: cfg.ID,
				ProviderSubType:  cfg.SubType,
			},
			Created: r.Created,
			Source:  r.Source,
		}
		m.URI = modeluri.EncodeModel(m)
		out = append(out, m)
	}

	return ApplyExacto(out)
}

func normalize(r RawModel, providerType models.ProviderType) RawModel {
	r.Author = strings.ToLower(r.Author)
	if r.LocalID == "" {
		switch {
		case r.Author != "" && strings.HasPrefix(r.ID, r.Author+"/"):
			r.LocalID = strings.TrimPrefix(r.ID, r.Author+"/")
		case r.Author == "" && strings.Contains(r.ID, "/"):
			author, local, _ := strings.Cut(r.ID, "/")
			r.Author, r.LocalID = strings.ToLower(author), local
		default:
			r.LocalID = r.ID
		}
	}
	if r.Author == "" {
		r.Author = InferAuthor(Canonicalize(r.LocalID), string(providerType))
	}
	return r
}
