package config

import (
	"os"
	"path/filepath"
)

type StoreConfig struct {
	// SqliteEnabled controls whether the SQLite-backed memory store is used.
	// When false, memories live in an in-memory store and are lost on exit.
	// Default: true
	SqliteEnabled bool `json:"sqliteEnabled,omitempty" yaml:"sqliteEnabled"`

	// TextSqlitePath is the SQLite database file for text memories.
	// Default: ~/.memorymap/text.db
	TextSqlitePath string `json:"textSqlitePath,omitempty" yaml:"textSqlitePath"`

	// ImageSqlitePath is the SQLite database file for image memories.
	// Text and image memories are embedded by different models with
	// different dimensions, so each modality gets its own database.
	// Default: ~/.memorymap/image.db
	ImageSqlitePath string `json:"imageSqlitePath,omitempty" yaml:"imageSqlitePath"`
}

func NewStoreConfig() *StoreConfig {
	config := &StoreConfig{
		SqliteEnabled: true,
	}

	dataDir := os.Getenv("MEMORYMAP_DATA_DIR")
	if dataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(home, ".memorymap")
		} else {
			dataDir = ".memorymap"
		}
	}
	config.TextSqlitePath = filepath.Join(dataDir, "text.db")
	config.ImageSqlitePath = filepath.Join(dataDir, "image.db")

	return config
}
