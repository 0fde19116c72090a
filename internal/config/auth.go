package config

import (
	"fmt"
	"time"
)

// AuthConfig holds JWT signing configuration.
type AuthConfig struct {
	// Secret is the HS256 signing key.
	Secret string
	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		Secret:   GetEnv("JWT_SECRET", ""),
		TokenTTL: GetEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TokenTTL must be greater than 0")
	}
	return nil
}
