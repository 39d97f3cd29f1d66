package config

import (
	"os"

	"github.com/pkg/errors"
)

type EmbedderConfig struct {
	// Provider selects the text embedding backend: "nomic" or "openai".
	// Image embeddings always go through the Nomic vision endpoint, which
	// is the only provider here that embeds both modalities into models
	// sharing a latent space.
	// Default: "nomic"
	Provider string `json:"provider,omitempty" yaml:"provider"`

	NomicAPIKey  string `json:"-" yaml:"-"`
	OpenAIAPIKey string `json:"-" yaml:"-"`
}

func (c *EmbedderConfig) Validate() error {
	switch c.Provider {
	case "nomic":
		if c.NomicAPIKey == "" {
			return errors.New("NOMIC_API_KEY is required for the nomic embedder")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai embedder")
		}
		if c.NomicAPIKey == "" {
			return errors.New("NOMIC_API_KEY is required for image embeddings")
		}
	default:
		return errors.Errorf("unknown embedder provider: %s", c.Provider)
	}
	return nil
}

func NewEmbedderConfig() *EmbedderConfig {
	config := &EmbedderConfig{
		Provider:     "nomic",
		NomicAPIKey:  os.Getenv("NOMIC_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
	}

	if v := os.Getenv("MEMORYMAP_EMBEDDER"); v != "" {
		config.Provider = v
	}

	return config
}
