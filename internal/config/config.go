// Package config loads application configuration from the environment.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/ellarises/webapp/pkg/db"
	"github.com/ellarises/webapp/pkg/logger"
	"github.com/ellarises/webapp/pkg/mailer/resend"
)

// Config aggregates all application settings.
type Config struct {
	Port string `env:"PORT, default=8080"`
	Env  string `env:"ENV, default=development"`

	RedisURL string `env:"REDIS_URL, default=redis://localhost:6379/0"`

	SessionCookieSecure bool `env:"SESSION_COOKIE_SECURE, default=false"`
	SessionMaxAge       int  `env:"SESSION_MAX_AGE, default=604800"`

	// ContactNotifyEmail receives a copy of every contact form submission.
	ContactNotifyEmail string `env:"CONTACT_NOTIFY_EMAIL"`

	Database db.Config
	Sentry   logger.SentryConfig
	Resend   resend.Config
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load environment: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
