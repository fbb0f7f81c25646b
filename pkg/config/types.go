// Package config provides configuration loading and validation for ascendlog.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// LogFile is the progression journal to parse (required).
	LogFile string `yaml:"log_file"`

	// BaseYear overrides the fallback base year used when the journal
	// carries no stand-alone year line. Zero keeps the parser default.
	BaseYear int `yaml:"base_year,omitempty"`

	// Server configures the local HTTP endpoint for the serve command.
	Server ServerConfig `yaml:"server,omitempty"`

	// Webhooks receive the analytics report after each analyze run.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":5050".
	Addr string `yaml:"addr,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerAlways fires after every analysis (default).
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerOnBreakthrough fires only when the latest entry
	// records a breakthrough.
	WebhookTriggerOnBreakthrough WebhookTrigger = "on_breakthrough"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analytics reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication. Supports
	// ${VAR} environment expansion.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "always" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
