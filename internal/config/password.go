package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

const (
	maxPasswordBytes = 72 // bcrypt input limit
	minBcryptCost    = 10
	maxBcryptCost    = 14
)

// ErrPasswordTooShort and ErrPasswordTooLong are returned by CheckPassword.
var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
)

// PasswordConfig controls bcrypt hashing of account passwords.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // appended to every password before hashing
}

// NewPasswordConfig reads BCRYPT_COST (default 12) and PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost, err := intEnv("BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}
	cfg := &PasswordConfig{BcryptCost: cost, Pepper: stringEnv("PASSWORD_PEPPER", "")}
	if cfg.BcryptCost < minBcryptCost || cfg.BcryptCost > maxBcryptCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", cfg.BcryptCost, minBcryptCost, maxBcryptCost)
	}
	return cfg, nil
}

// CheckPassword enforces the length policy, counting the pepper against bcrypt's limit.
func (c *PasswordConfig) CheckPassword(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw)+len(c.Pepper) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword returns the bcrypt hash of pw plus the pepper.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+c.Pepper), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+c.Pepper)) == nil
}
