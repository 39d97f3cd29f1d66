package config

import "os"

type LogConfig struct {
	LogLevel   string `json:"logLevel,omitempty" yaml:"logLevel"`
	LogHandler string `json:"logHandler,omitempty" yaml:"logHandler"`
}

func NewLogConfig() *LogConfig {
	config := &LogConfig{
		LogLevel:   "info",
		LogHandler: "default",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("LOG_HANDLER"); v != "" {
		config.LogHandler = v
	}

	return config
}
