package config

import (
	"os"

	"github.com/pkg/errors"
)

// FireCrawlConfig holds credentials for the FireCrawl scraping API used by
// the URL memory loader. APIUrl can point at a self-hosted instance.
type FireCrawlConfig struct {
	APIKey string `json:"api_key" yaml:"api_key"`
	APIUrl string `json:"api_url" yaml:"api_url"`
}

func (c *FireCrawlConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("api_key is required")
	}
	return nil
}

func NewFireCrawlConfig() *FireCrawlConfig {
	config := &FireCrawlConfig{
		APIKey: os.Getenv("FIRECRAWL_API_KEY"),
		APIUrl: os.Getenv("FIRECRAWL_API_URL"),
	}

	if config.APIUrl == "" {
		config.APIUrl = "https://api.firecrawl.dev"
	}

	return config
}
