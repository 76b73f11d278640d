// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	ServerPort int    `env:"PORT" envDefault:"8080"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./studyflow.db"`

	// Comma-separated list of allowed CORS origins.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// Chat assistant (Anthropic). Empty API key disables the feature.
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY" envDefault:""`
	ChatModel       string        `env:"CHAT_MODEL" envDefault:"claude-sonnet-4-20250514"`
	ChatMaxTokens   int           `env:"CHAT_MAX_TOKENS" envDefault:"1024"`
	ChatTimeout     time.Duration `env:"CHAT_TIMEOUT" envDefault:"30s"`

	// Reminder endpoint and background check. Empty API key disables the endpoint.
	ReminderAPIKey string `env:"REMINDER_API_KEY" envDefault:""`
	ReminderCron   string `env:"REMINDER_CRON" envDefault:"0 18 * * *"`

	// Background system stats sampling interval.
	StatsInterval time.Duration `env:"STATS_INTERVAL" envDefault:"30s"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
