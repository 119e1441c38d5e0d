// Package config provides configuration loading and validation for logcatparse.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// Inputs lists files, directories or glob patterns to parse when none are
	// given on the command line. "-" selects standard input.
	Inputs []string `yaml:"inputs" toml:"inputs"`

	// Separator joins continuation lines onto a record's message.
	Separator string `yaml:"separator" toml:"separator"`

	// Banners enables recognition of "--------- beginning of <buffer>" lines.
	Banners bool `yaml:"banners" toml:"banners"`

	Output   OutputConfig    `yaml:"output" toml:"output"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks,omitempty"`
}

// OutputFormat selects how results are written.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// ColorMode controls priority coloring in text output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ErrorMode controls whether parse errors are written alongside records.
type ErrorMode string

const (
	// ErrorsReport writes parse errors in line with records (default).
	ErrorsReport ErrorMode = "report"
	// ErrorsSkip counts parse errors in the summary but does not print them.
	ErrorsSkip ErrorMode = "skip"
)

// OutputConfig controls formatting.
type OutputConfig struct {
	Format OutputFormat `yaml:"format" toml:"format"`
	Color  ColorMode    `yaml:"color" toml:"color"`
	Errors ErrorMode    `yaml:"errors" toml:"errors"`

	// Quiet suppresses records and errors; only the summary is written.
	Quiet bool `yaml:"quiet" toml:"quiet"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when parse errors were seen (default).
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives the run summary.
type WebhookConfig struct {
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`
	URL  string `yaml:"url" toml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token   string         `yaml:"token,omitempty" toml:"token,omitempty"`
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger,omitempty"`
	Timeout Duration       `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("10s") in
// both YAML and TOML files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}
