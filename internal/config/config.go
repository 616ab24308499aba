// Package config loads process configuration from the environment into a
// typed struct once at startup. Components receive the values they need by
// injection — nothing else in the codebase reads environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultJWTSecret is the development-only fallback signing secret.
// Validate rejects it (and anything resembling it) in production.
const DefaultJWTSecret = "dev-secret-change-me"

var knownWeakSecrets = []string{
	DefaultJWTSecret, "change-me", "secret", "password", "admin",
}

type Config struct {
	Port       int    `env:"PORT" envDefault:"8080"`
	DBPath     string `env:"DB_PATH" envDefault:"data/lumeo.db"`
	JWTSecret  string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	RootDomain string `env:"ROOT_DOMAIN" envDefault:"withlumeo.com"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	StaticDir  string `env:"STATIC_DIR" envDefault:"web/dist"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate enforces startup-time constraints. The fallback JWT secret keeps
// local development frictionless, but running production traffic on a
// published secret would make every issued token forgeable, so production
// startup fails hard on it.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d is out of range", c.Port)
	}
	if c.RootDomain == "" {
		return fmt.Errorf("config: ROOT_DOMAIN must not be empty")
	}

	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("config: JWT_SECRET must be at least 32 characters in production (generate with: openssl rand -hex 32)")
		}
		for _, weak := range knownWeakSecrets {
			if strings.EqualFold(c.JWTSecret, weak) {
				return fmt.Errorf("config: JWT_SECRET is a known weak default; set a strong secret in production")
			}
		}
	}

	return nil
}
