package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultSeparator      = "\n"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	// EnvInputs is a list of inputs separated by the OS path list separator.
	EnvInputs       = "LOGCATPARSE_INPUTS"
	EnvOutputFormat = "LOGCATPARSE_OUTPUT_FORMAT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Inputs:    []string{},
		Separator: DefaultSeparator,
		Banners:   true,
		Output: OutputConfig{
			Format: OutputText,
			Color:  ColorAuto,
			Errors: ErrorsReport,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if inputs := os.Getenv(EnvInputs); inputs != "" {
		c.Inputs = filepath.SplitList(inputs)
	}
	if format := os.Getenv(EnvOutputFormat); format != "" {
		c.Output.Format = OutputFormat(strings.ToLower(format))
	}
}
