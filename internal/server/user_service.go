package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/types"
)

// DBClient is the user storage used by UserService.
type DBClient interface {
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserService implements account registration, login and password changes.
type UserService struct {
	db        DBClient
	passwords *config.PasswordConfig
}

// NewUserService creates a UserService.
func NewUserService(db DBClient, passwords *config.PasswordConfig) *UserService {
	return &UserService{db: db, passwords: passwords}
}

// publicUser drops the password hash.
func publicUser(u *db.User) *types.User {
	return &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		PasswordSet: u.PasswordSet,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (s *UserService) checkPassword(pw string) error {
	switch err := s.passwords.CheckPassword(pw); {
	case errors.Is(err, config.ErrPasswordTooShort):
		return &ErrValidation{Field: "password", Message: fmt.Sprintf("must be at least %d characters", config.MinPasswordLength)}
	case errors.Is(err, config.ErrPasswordTooLong):
		return &ErrValidation{Field: "password", Message: "is too long"}
	default:
		return err
	}
}

// Register creates an account with a hashed password.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	req.Normalize()
	if err := s.checkPassword(req.Password); err != nil {
		return nil, err
	}

	taken, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if taken {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.db.CreateUser(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, id, hash); err != nil {
		// Drop the half-created row so the email stays available.
		_ = s.db.DeleteUser(ctx, id)
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	return s.Profile(ctx, id)
}

// Login checks credentials. Unknown emails and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	req.Normalize()
	u, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if u == nil || !u.PasswordSet || !s.passwords.VerifyPassword(req.Password, u.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return publicUser(u), nil
}

// Profile returns the account with the given id.
func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := s.db.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return publicUser(u), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	u, err := s.db.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return &ErrUserNotFound{UserID: id}
	}
	if !s.passwords.VerifyPassword(current, u.PasswordHash) {
		return &ErrPasswordMismatch{}
	}
	if err := s.checkPassword(next); err != nil {
		return err
	}

	hash, err := s.passwords.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
