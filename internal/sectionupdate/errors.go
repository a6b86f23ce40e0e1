package sectionupdate

import "fmt"

// GenerationError represents a failed or undecodable backend generation
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// SnapshotError represents a failure reading the document store
type SnapshotError struct {
	DocumentID string
	Cause      error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot lookup failed for document %s: %v", e.DocumentID, e.Cause)
}

func (e *SnapshotError) Unwrap() error {
	return e.Cause
}
