package catalog

import (
	"regexp"
	"strings"
)

type authorRule struct {
	pattern *regexp.Regexp
	author  string
}

var authorRules = []authorRule{
	{regexp.MustCompile(`^claude`), "anthropic"},
	{regexp.MustCompile(`^(gpt-oss|gpt|chatgpt|o\d|o-\d|dall-e|text-embedding|whisper|tts)`), "openai"},
	{regexp.MustCompile(`^(gemini|gemma|imagen)`), "google"},
	{regexp.MustCompile(`^grok`), "x-ai"},
	{regexp.MustCompile(`^glm`), "z-ai"},
	{regexp.MustCompile(`^(llama|codellama)`), "meta"},
	{regexp.MustCompile(`^(qwen|qwq)`), "qwen"},
	{regexp.MustCompile(`^deepseek`), "deepseek"},
	{regexp.MustCompile(`^(mistral|mixtral|codestral|devstral|magistral|ministral)`), "mistral"},
	{regexp.MustCompile(`^kimi`), "moonshotai"},
	{regexp.MustCompile(`^minimax`), "minimax"},
	{regexp.MustCompile(`^phi`), "microsoft"},
}

// InferAuthor guesses the model author from its family name, for providers
// that do not report one.
func InferAuthor(canonicalID, fallback string) string {
	id := strings.ToLower(canonicalID)
	for _, rule := range authorRules {
		if rule.pattern.MatchString(id) {
			return rule.author
		}
	}
	return fallback
}
