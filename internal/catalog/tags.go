package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"model_gateway/internal/models"
)

// NewModelWindow is how long after its creation a model carries the "new" tag.
const NewModelWindow = 30 * 24 * time.Hour

type version struct {
	major, minor int
}

func (v version) atLeast(o version) bool {
	if v.major != o.major {
		return v.major > o.major
	}
	return v.minor >= o.minor
}

func parseVersion(s string) (version, bool) {
	majorStr, minorStr, hasMinor := strings.Cut(s, ".")
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return version{}, false
	}
	v := version{major: major}
	if hasMinor {
		minor, err := strconv.Atoi(minorStr)
		if err != nil {
			return version{}, false
		}
		v.minor = minor
	}
	return v, true
}

// versionFloor tags a model family coding+recommended from a minimum version up.
type versionFloor struct {
	pattern  *regexp.Regexp
	floor    version
	excluded *regexp.Regexp
}

var versionFloors = []versionFloor{
	{
		pattern:  regexp.MustCompile(`^gpt-(\d+(?:\.\d+)?)(?:-|$)`),
		floor:    version{5, 0},
		excluded: regexp.MustCompile(`-(nano|pro)(-|$)`),
	},
	{pattern: regexp.MustCompile(`^claude-(?:sonnet|haiku|opus)-(\d+(?:\.\d+)?)(?:-|$)`), floor: version{4, 0}},
	{pattern: regexp.MustCompile(`^gemini-(\d+(?:\.\d+)?)(?:-|$)`), floor: version{3, 0}},
	{pattern: regexp.MustCompile(`^grok-(\d+(?:\.\d+)?)(?:-|$)`), floor: version{4, 0}},
	{pattern: regexp.MustCompile(`^glm-(\d+(?:\.\d+)?)(?:-|$)`), floor: version{4, 5}},
}

var staticTagOverrides = map[string][]models.ModelTag{
	"gemini-2.5-flash": {models.ModelTagRecommended},
	"gemini-2.5-pro":   {models.ModelTagCoding, models.ModelTagRecommended},
	"grok-code-fast-1": {models.ModelTagCoding, models.ModelTagRecommended},
	"qwen3-coder":      {models.ModelTagCoding, models.ModelTagRecommended},
	"kimi-k2":          {models.ModelTagCoding},
	"kimi-k2-thinking": {models.ModelTagCoding, models.ModelTagRecommended},
	"minimax-m2":       {models.ModelTagCoding},
}

var (
	claude4Pattern     = regexp.MustCompile(`^claude-(?:sonnet|haiku|opus)-4(?:\.(\d+))?(?:-|$)`)
	claude3Pattern     = regexp.MustCompile(`^claude-(?:3|(?:sonnet|haiku|opus)-3)(?:[.-]|$)`)
	gpt5Pattern        = regexp.MustCompile(`^gpt-5(?:\.1)?(?:-|$)`)
	gpt5KeepPattern    = regexp.MustCompile(`(codex|max)`)
	openAIReasoningIDs = regexp.MustCompile(`^o-?\d`)
)

// Aggregators mark the base model; ApplyExacto moves the tag onto a listed
// :exacto variant.
var defaultModels = map[models.ProviderType]string{
	models.ProviderTypeAnthropic:  "claude-sonnet-4.5",
	models.ProviderTypeFireworks:  "glm-4.6",
	models.ProviderTypeGoogle:     "gemini-3-pro-preview",
	models.ProviderTypeOpenAI:     "gpt-5.1-codex-max",
	models.ProviderTypeOpenRouter: "claude-sonnet-4.5",
	models.ProviderTypeQuests:     "claude-sonnet-4.5",
	models.ProviderTypeVercel:     "claude-sonnet-4.5",
	models.ProviderTypeXAI:        "grok-code-fast-1",
}

// DefaultModelFor returns the canonical id marked default for a provider type.
func DefaultModelFor(t models.ProviderType) (string, bool) {
	id, ok := defaultModels[t]
	return id, ok
}

type tagSet struct {
	tags      []models.ModelTag
	noDefault bool
}

func (s *tagSet) add(tags ...models.ModelTag) {
	s.tags = append(s.tags, tags...)
}

func (s *tagSet) remove(tag models.ModelTag) {
	kept := s.tags[:0]
	for _, t := range s.tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	s.tags = kept
}

func (s *tagSet) has(tag models.ModelTag) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *tagSet) markLegacy() {
	s.add(models.ModelTagLegacy)
	s.remove(models.ModelTagRecommended)
	s.noDefault = true
}

// DeriveTags computes the tags of a model. The layers run in a fixed order:
// version floors, static overrides, superseded models, vendor exceptions,
// the per-provider default, de-duplication, and finally recency.
func DeriveTags(canonicalID string, providerType models.ProviderType, created *time.Time, now time.Time) []models.ModelTag {
	id := lowerBase(canonicalID)
	set := &tagSet{}

	for _, vf := range versionFloors {
		m := vf.pattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		if vf.excluded != nil && vf.excluded.MatchString(id) {
			break
		}
		if v, ok := parseVersion(m[1]); ok && v.atLeast(vf.floor) {
			set.add(models.ModelTagCoding, models.ModelTagRecommended)
		}
		break
	}

	set.add(staticTagOverrides[id]...)

	if isSuperseded(id) {
		set.markLegacy()
	}

	switch providerType {
	case models.ProviderTypeOpenAI:
		if openAIReasoningIDs.MatchString(id) {
			set.markLegacy()
		}
	case models.ProviderTypeOpenAICompatible:
		if strings.Contains(id, "codex") {
			set.remove(models.ModelTagRecommended)
			set.noDefault = true
		}
	}

	if def, ok := defaultModels[providerType]; ok && def == id && !set.noDefault && !set.has(models.ModelTagLegacy) {
		set.add(models.ModelTagDefault)
	}

	tags := dedupeTags(set.tags)

	if created != nil && now.Sub(*created) < NewModelWindow {
		tags = append(tags, models.ModelTagNew)
	}
	return tags
}

func isSuperseded(id string) bool {
	if claude3Pattern.MatchString(id) {
		return true
	}
	if m := claude4Pattern.FindStringSubmatch(id); m != nil {
		return m[1] != "5"
	}
	if gpt5Pattern.MatchString(id) && !gpt5KeepPattern.MatchString(id) {
		return true
	}
	return false
}

func dedupeTags(tags []models.ModelTag) []models.ModelTag {
	seen := make(map[models.ModelTag]bool, len(tags))
	out := make([]models.ModelTag, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// lowerBase lowercases an id and drops a ":variant" suffix.
func lowerBase(id string) string {
	base, _, _ := strings.Cut(strings.ToLower(id), ":")
	return base
}
