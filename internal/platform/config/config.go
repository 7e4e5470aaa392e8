// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (upstream client, stores) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the gateway is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the MediScan gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Upstream platform API (authentication, CRUD, inference)
	UpstreamAPIURL  string        `env:"UPSTREAM_API_URL,required"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"45s"`

	// Session store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret is the HMAC key for the session cookie codec.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// SessionTTL caps how long a session record may outlive its last save,
	// regardless of the credential's own expiry claim.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Audit trail (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// WebOrigin is the browser origin of the SPA, used for CORS in production.
	WebOrigin string `env:"WEB_ORIGIN"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Fail fast on an unusable upstream base URL rather than at first login.
	if _, err := url.ParseRequestURI(cfg.UpstreamAPIURL); err != nil {
		return nil, fmt.Errorf("config: invalid UPSTREAM_API_URL: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the gateway is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the gateway is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigin returns the browser origin permitted by CORS outside development.
func (c *Config) AllowedOrigin() string {
	return c.WebOrigin
}
