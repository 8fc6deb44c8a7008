// Package config loads run configuration from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Slack settings; at least one delivery path must be configured.
	SlackBotToken   string `env:"SLACK_BOT_TOKEN"`
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`

	// ChannelsJSON maps channel name to an ordered country list; empty or
	// malformed falls back to the built-in map.
	ChannelsJSON string `env:"ORYX_CHANNELS_JSON"`

	// Pipeline settings
	RegistryPath    string        `env:"ORYX_REGISTRY_PATH" envDefault:"configs/registry.yaml"`
	WindowHours     int           `env:"WINDOW_HOURS" envDefault:"24"`
	VerifiedOnly    bool          `env:"VERIFIED_ONLY" envDefault:"true"`
	Themes          []string      `env:"THEME_SUBSET" envSeparator:","`
	PerCountryCap   int           `env:"PER_COUNTRY_CAP" envDefault:"4"`
	IncludeRegional bool          `env:"INCLUDE_REGIONAL" envDefault:"true"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"12s"`
	PolitenessDelay time.Duration `env:"POLITENESS_DELAY" envDefault:"250ms"`
	MaxMessageChars int           `env:"MAX_MESSAGE_CHARS" envDefault:"39000"`

	// Scheduling (daemon mode)
	LocalTZ string `env:"LOCAL_TZ" envDefault:"Africa/Casablanca"`
	PostAt  string `env:"POST_AT_LOCAL_TIME" envDefault:"08:30"`

	// App settings
	Debug            bool `env:"DEBUG"`
	EnableMonitoring bool `env:"ENABLE_HTTP_MONITORING"`
	MonitoringPort   int  `env:"MONITORING_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SlackBotToken == "" && c.SlackWebhookURL == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN or SLACK_WEBHOOK_URL is required")
	}
	if c.WindowHours <= 0 {
		return fmt.Errorf("WINDOW_HOURS must be positive")
	}
	if _, err := time.Parse("15:04", c.PostAt); err != nil {
		return fmt.Errorf("POST_AT_LOCAL_TIME must be HH:MM: %w", err)
	}
	return nil
}

// DefaultChannels is the built-in channel → countries map.
func DefaultChannels() map[string][]string {
	return map[string][]string{
		"news-ame": {
			"Benin", "Morocco", "Côte d'Ivoire", "Senegal", "Tunisia",
			"Burkina Faso", "Ghana", "Liberia", "Jordan",
		},
		"news-ctrl-eur": {
			"Austria", "Bosnia and Herzegovina", "Czech Republic",
			"Malta", "Serbia", "Slovakia",
		},
	}
}

// Channels parses the configured channel map. A malformed value is not
// fatal: the default map is returned together with the parse error so the
// caller can log a warning.
func (c *Config) Channels() (map[string][]string, error) {
	if c.ChannelsJSON == "" {
		return DefaultChannels(), nil
	}
	parsed := map[string][]string{}
	if err := json.Unmarshal([]byte(c.ChannelsJSON), &parsed); err != nil {
		return DefaultChannels(), fmt.Errorf("parse ORYX_CHANNELS_JSON: %w", err)
	}
	if len(parsed) == 0 {
		return DefaultChannels(), fmt.Errorf("ORYX_CHANNELS_JSON is empty")
	}
	return parsed, nil
}
