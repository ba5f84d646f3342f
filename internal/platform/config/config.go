// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

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
  - DI-Friendly: Passed to core components (Mongo, Redis, OAuth) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Fairway API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Document Database (MongoDB)
	MongoURL      string `env:"MONGO_URL,required"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"fairway"`

	// Key-Value Session Store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// JWTSecret signs every compact token the service issues (access, refresh,
	// email verification, password reset stages).
	JWTSecret string `env:"JWT_SECRET,required"`

	// MFAEncryptionKey is a 32-byte hex-encoded key used to encrypt the MFA
	// shared secret at rest.
	MFAEncryptionKey string `env:"MFA_ENCRYPTION_KEY,required"`

	// Cookie scoping
	CookieDomain string `env:"COOKIE_DOMAIN"`

	// Token lifetimes. Defaults match the documented API contract.
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// Third-party OAuth (GitHub)
	GithubClientID     string `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// Outbound email (SMTP)
	SMTPHost    string `env:"SMTP_HOST"`
	SMTPPort    int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUser    string `env:"SMTP_USER"`
	SMTPPass    string `env:"SMTP_PASS"`
	MailFrom    string `env:"MAIL_FROM"     envDefault:"no-reply@fairway.golf"`
	MailSubject string `env:"MAIL_SUBJECT_PREFIX" envDefault:"Fairway"`

	// Deployment URLs: APIBaseURL builds verification links and the OAuth
	// callback; ClientBaseURL is the redirect target after email verification.
	APIBaseURL    string `env:"API_BASE_URL"    envDefault:"http://localhost:8080"`
	ClientBaseURL string `env:"CLIENT_BASE_URL" envDefault:"http://localhost:3000"`
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

	// The MFA key must decode to exactly 32 bytes (AES-256). Catch a bad key
	// at startup instead of at the first MFA enrollment.
	key, err := hex.DecodeString(cfg.MFAEncryptionKey)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("config: MFA_ENCRYPTION_KEY must be 64 hex characters (32 bytes)")
	}

	return cfg, nil
}

// MFAKey returns the decoded 32-byte MFA encryption key.
// Load has already validated the encoding.
func (c *Config) MFAKey() []byte {
	key, _ := hex.DecodeString(c.MFAEncryptionKey)
	return key
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
