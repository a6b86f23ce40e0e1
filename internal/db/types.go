package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrFragmentNotFound is returned when a write-back targets a fragment the resume no longer contains.
var ErrFragmentNotFound = errors.New("fragment not found in current resume content")

// ErrResumeNotFound is returned when a write targets a missing resume.
var ErrResumeNotFound = errors.New("resume not found")

// User represents a user profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resume is an HTML resume document owned by one user
type Resume struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResumeSummary is a lightweight view of a resume for listing
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section edit outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeApplied  = "applied"
)

// SectionEdit is one entry in a resume's edit log
type SectionEdit struct {
	ID          uuid.UUID `json:"id"`
	ResumeID    uuid.UUID `json:"resume_id"`
	SectionKind string    `json:"section_kind"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
	Instruction string    `json:"instruction,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
