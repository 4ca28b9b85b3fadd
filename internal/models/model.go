package models

import (
	"encoding/json"
	"time"
)

// ModelTag classifies models for UI and default selection.
type ModelTag string

const (
	ModelTagCoding      ModelTag = "coding"
	ModelTagRecommended ModelTag = "recommended"
	ModelTagDefault     ModelTag = "default"
	ModelTagLegacy      ModelTag = "legacy"
	ModelTagNew         ModelTag = "new"
)

// ModelFeature describes an input/output modality a model supports.
type ModelFeature string

const (
	ModelFeatureText            ModelFeature = "text"
	ModelFeatureTools           ModelFeature = "tools"
	ModelFeatureInputImage      ModelFeature = "input-image"
	ModelFeatureImageGeneration ModelFeature = "image-generation"
	ModelFeatureAudio           ModelFeature = "audio"
	ModelFeatureEmbedding       ModelFeature = "embedding"
)

// ModelParams are the query parameters of a model URI.
type ModelParams struct {
	Provider         ProviderType `json:"provider"`
	ProviderConfigID string       `json:"providerConfigId"`
	ProviderSubType  string       `json:"providerSubType,omitempty"`
}

// Model is a catalog entry for one model served by one provider config.
type Model struct {
	Author       string          `json:"author"`
	CanonicalID  string          `json:"canonicalId"`
	ProviderID   string          `json:"providerId"`
	Name         string          `json:"name"`
	Features     []ModelFeature  `json:"features"`
	Tags         []ModelTag      `json:"tags"`
	Params       ModelParams     `json:"params"`
	ProviderName string          `json:"providerName"`
	URI          string          `json:"uri"`
	Created      *time.Time      `json:"created,omitempty"`
	Source       json.RawMessage `json:"source,omitempty"`
}

// HasTag reports whether the model carries tag.
func (m Model) HasTag(tag ModelTag) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasFeature reports whether the model supports f.
func (m Model) HasFeature(f ModelFeature) bool {
	for _, have := range m.Features {
		if have == f {
			return true
		}
	}
	return false
}
