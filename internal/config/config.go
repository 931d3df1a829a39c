package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Provider name constants used across OAuth wiring and session bookkeeping.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

type Config struct {
	// Server settings
	ServerAddr string `env:"SERVER_ADDR" envDefault:":3000"`
	BaseURL    string `env:"BASE_URL"    envDefault:"http://localhost:3000"`

	// Session settings
	SessionSecret string `env:"SESSION_SECRET"  envDefault:"keyboard-cat-change-in-production"`
	SessionMaxAge int    `env:"SESSION_MAX_AGE" envDefault:"86400"` // seconds
	IsProduction  bool   `env:"PRODUCTION"      envDefault:"false"`

	// Database
	MongoURI      string        `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"storybook"`
	DBInitTimeout time.Duration `env:"DB_INIT_TIMEOUT" envDefault:"10s"`

	// Google OAuth
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// Facebook OAuth
	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`

	// OAuth HTTP client
	OAuthTimeout time.Duration `env:"OAUTH_TIMEOUT" envDefault:"15s"`

	// Metrics
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsToken   string `env:"METRICS_TOKEN"`
}

// Load reads configuration from the environment, consulting a .env file
// when one is present.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to start.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.MongoDatabase == "" {
		return errors.New("MONGO_DATABASE is required")
	}
	if !c.GoogleEnabled() && !c.FacebookEnabled() {
		return errors.New("at least one OAuth provider must be configured " +
			"(GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET or FACEBOOK_CLIENT_ID/FACEBOOK_CLIENT_SECRET)")
	}
	return nil
}

// GoogleEnabled reports whether Google login is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// FacebookEnabled reports whether Facebook login is configured.
func (c *Config) FacebookEnabled() bool {
	return c.FacebookClientID != "" && c.FacebookClientSecret != ""
}

// CallbackURL returns the registered OAuth callback URL for a provider.
func (c *Config) CallbackURL(provider string) string {
	return fmt.Sprintf("%s/auth/%s/callback", c.BaseURL, provider)
}
