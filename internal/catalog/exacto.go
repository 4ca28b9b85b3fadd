package catalog

import (
	"strings"

	"model_gateway/internal/models"
)

const (
	exactoSuffix     = ":exacto"
	exactoNameSuffix = " (exacto)"
)

// ApplyExacto moves the recommended and default tags from a base model onto
// its ":exacto" variant, which aggregators serve with better tool-calling
// providers, and strips the display suffix from the variant's name.
func ApplyExacto(list []models.Model) []models.Model {
	byProviderID := make(map[string]int, len(list))
	for i, m := range list {
		byProviderID[m.Params.ProviderConfigID+"\x00"+m.ProviderID] = i
	}

	for i := range list {
		variant := &list[i]
		if !strings.HasSuffix(variant.ProviderID, exactoSuffix) {
			continue
		}
		variant.Name = strings.TrimSuffix(variant.Name, exactoNameSuffix)

		baseID := strings.TrimSuffix(variant.ProviderID, exactoSuffix)
		j, ok := byProviderID[variant.Params.ProviderConfigID+"\x00"+baseID]
		if !ok {
			continue
		}
		base := &list[j]
		for _, tag := range []models.ModelTag{models.ModelTagRecommended, models.ModelTagDefault} {
			if !base.HasTag(tag) {
				continue
			}
			if !variant.HasTag(tag) {
				variant.Tags = append(variant.Tags, tag)
			}
			base.Tags = withoutTag(base.Tags, tag)
		}
	}
	return list
}

func withoutTag(tags []models.ModelTag, tag models.ModelTag) []models.ModelTag {
	out := make([]models.ModelTag, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
