package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// FileConfig is the shape of an optional memorymap.yaml. Values from the
// file override the defaults, env vars override the file.
type FileConfig struct {
	Log       *LogConfig       `yaml:"log"`
	Store     *StoreConfig     `yaml:"store"`
	Embedder  *EmbedderConfig  `yaml:"embedder"`
	Synthesis *SynthesisConfig `yaml:"synthesis"`
	Narrative *NarrativeConfig `yaml:"narrative"`
}

func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file: %s", path)
	}

	var config FileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config file: %s", path)
	}

	return &config, nil
}
