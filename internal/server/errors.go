package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/ingestion"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrResumeNotFound indicates a resume that does not exist or belongs to another user.
// Both cases produce the same error so ownership is not revealed.
type ErrResumeNotFound struct {
	ResumeID string
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ResumeID)
}

// ErrUnknownSection indicates a section kind with no agent.
type ErrUnknownSection struct {
	Kind string
}

func (e *ErrUnknownSection) Error() string {
	return fmt.Sprintf("unknown section: %s", e.Kind)
}

// ErrStaleFragment indicates a write-back whose old fragment is no longer in the resume.
type ErrStaleFragment struct {
	ResumeID uuid.UUID
}

func (e *ErrStaleFragment) Error() string {
	return fmt.Sprintf("resume %s changed since the edit was generated; request a new edit", e.ResumeID)
}

// ErrUnavailable indicates an optional backend (model, browser, export bucket) that is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		unsupported *ingestion.UnsupportedTypeError
		extract     *ingestion.ExtractError
	)
	switch {
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extract):
		return http.StatusUnprocessableEntity
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists, *ErrStaleFragment:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound, *ErrResumeNotFound, *ErrUnknownSection:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
