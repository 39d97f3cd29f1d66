package config

import "os"

type NarrativeConfig struct {
	// Model is the Anthropic model used to turn a synthesis timeline into
	// a narrative story.
	// Default: "claude-sonnet-4-0"
	Model string `json:"model,omitempty" yaml:"model"`

	AnthropicAPIKey string `json:"-" yaml:"-"`

	// MaxTokens bounds the generated narrative length.
	// Default: 1024
	MaxTokens int `json:"maxTokens,omitempty" yaml:"maxTokens"`
}

func NewNarrativeConfig() *NarrativeConfig {
	config := &NarrativeConfig{
		Model:           "claude-sonnet-4-0",
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		MaxTokens:       1024,
	}

	if v := os.Getenv("MEMORYMAP_NARRATIVE_MODEL"); v != "" {
		config.Model = v
	}

	return config
}
