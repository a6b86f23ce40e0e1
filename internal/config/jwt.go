package config

import (
	"fmt"
	"time"
)

// MinSecretLength is the shortest HS256 signing secret accepted.
const MinSecretLength = 32

// JWTConfig holds the session token signing settings.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

// NewJWTConfig reads JWT_SECRET (required), JWT_EXPIRATION_HOURS (default 24)
// and JWT_ISSUER (default "resume-editor").
func NewJWTConfig() (*JWTConfig, error) {
	hours, err := intEnv("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg := &JWTConfig{
		Secret:          stringEnv("JWT_SECRET", ""),
		ExpirationHours: hours,
		Issuer:          stringEnv("JWT_ISSUER", "resume-editor"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the secret length and the token lifetime.
func (c *JWTConfig) Validate() error {
	switch {
	case c.Secret == "":
		return fmt.Errorf("JWT_SECRET is required but not set")
	case len(c.Secret) < MinSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", MinSecretLength, len(c.Secret))
	case c.ExpirationHours < 1:
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
