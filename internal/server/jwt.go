package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/server/middleware"
)

// Claims are the registered claims of a session token. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	userID uuid.UUID
}

// GetUserID implements middleware.UserIDGetter.
func (c *Claims) GetUserID() uuid.UUID {
	return c.userID
}

// JWTService issues and checks HS256 session tokens.
type JWTService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewJWTService creates a JWT service with the given configuration.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{config: cfg, now: time.Now}
}

// GenerateToken issues a session token for userID. Every token gets a fresh jti.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.config.Issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration())),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a session token and resolves its subject to a user ID.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, errors.New("token string is empty")
	}

	parser := jwt.NewParser(s.parserOptions()...)
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, &claims.RegisteredClaims, s.key); err != nil {
		return nil, describeTokenError(err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user id: %w", err)
	}
	claims.userID = id
	return claims, nil
}

// Validator adapts the service to middleware.AuthMiddleware.
func (s *JWTService) Validator() middleware.TokenValidator {
	return tokenValidatorFunc(func(raw string) (middleware.UserIDGetter, error) {
		claims, err := s.ValidateToken(raw)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

func (s *JWTService) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	return opts
}

func (s *JWTService) key(*jwt.Token) (any, error) {
	return []byte(s.config.Secret), nil
}

func describeTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("token expired: %w", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("invalid token signature: %w", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("malformed token: %w", err)
	default:
		return fmt.Errorf("failed to parse token: %w", err)
	}
}

type tokenValidatorFunc func(string) (middleware.UserIDGetter, error)

func (f tokenValidatorFunc) ValidateToken(raw string) (middleware.UserIDGetter, error) {
	return f(raw)
}
