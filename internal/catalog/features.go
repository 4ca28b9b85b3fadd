package catalog

import (
	"regexp"

	"model_gateway/internal/models"
)

type featureRule struct {
	pattern  *regexp.Regexp
	features []models.ModelFeature
}

var (
	chatFeatures       = []models.ModelFeature{models.ModelFeatureText, models.ModelFeatureTools, models.ModelFeatureInputImage}
	textOnlyFeatures   = []models.ModelFeature{models.ModelFeatureText}
	textToolsFeatures  = []models.ModelFeature{models.ModelFeatureText, models.ModelFeatureTools}
	imageGenFeatures   = []models.ModelFeature{models.ModelFeatureImageGeneration}
	audioFeatures      = []models.ModelFeature{models.ModelFeatureAudio}
	embeddingFeatures  = []models.ModelFeature{models.ModelFeatureEmbedding}
	multimodalImageGen = []models.ModelFeature{models.ModelFeatureText, models.ModelFeatureInputImage, models.ModelFeatureImageGeneration}
)

// First match wins, so narrower patterns come first.
var featureRules = []featureRule{
	{regexp.MustCompile(`embed`), embeddingFeatures},
	{regexp.MustCompile(`-audio-preview`), audioFeatures},
	{regexp.MustCompile(`(^|-)(tts|whisper|transcribe)(-|$)`), audioFeatures},
	{regexp.MustCompile(`^gemini-.*-image`), multimodalImageGen},
	{regexp.MustCompile(`^(dall-e|gpt-image|imagen|flux|grok-\d+(\.\d+)?-image|grok-2-image)`), imageGenFeatures},
	{regexp.MustCompile(`^claude-`), chatFeatures},
	{regexp.MustCompile(`^gpt-(4o|4\.1|5)`), chatFeatures},
	{regexp.MustCompile(`^gpt-`), textToolsFeatures},
	{regexp.MustCompile(`^o-?\d`), chatFeatures},
	{regexp.MustCompile(`^gemini-`), chatFeatures},
	{regexp.MustCompile(`^grok-(2-vision|4)`), chatFeatures},
	{regexp.MustCompile(`^(grok-|glm-|kimi-|qwen|deepseek|mistral|codestral|devstral)`), textToolsFeatures},
	{regexp.MustCompile(`(llava|vision|-vl)`), []models.ModelFeature{models.ModelFeatureText, models.ModelFeatureInputImage}},
}

// Features returns the static feature set for a canonical model id.
func Features(canonicalID string) []models.ModelFeature {
	id := lowerBase(canonicalID)
	for _, rule := range featureRules {
		if rule.pattern.MatchString(id) {
			return append([]models.ModelFeature(nil), rule.features...)
		}
	}
	return append([]models.ModelFeature(nil), textOnlyFeatures...)
}
