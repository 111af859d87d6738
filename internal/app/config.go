package app

import "github.com/vk/fractalgrid/internal/config"

// Override adjusts the loaded configuration model. Overrides are applied in
// order after every configuration file has been read.
type Override func(*config.Model)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPaths are HCL files or directories. Empty means defaults only.
	ConfigPaths []string
	Overrides   []Override

	LogFormat string
	LogLevel  string
}

// NewConfig returns a copy of cfg with empty logging settings defaulted.
func NewConfig(cfg Config) *Config {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg
}
