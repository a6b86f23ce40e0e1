package server

import (
	"context"

	"github.com/google/uuid"
)

// ownerStore is the document store handed to section agents for one request.
// Resumes owned by anyone else read as missing.
type ownerStore struct {
	resumes ResumeStore
	userID  uuid.UUID
}

func (o ownerStore) GetResumeContent(ctx context.Context, documentID string) (string, bool, error) {
	id, err := uuid.Parse(documentID)
	if err != nil {
		return "", false, nil
	}
	resume, err := o.resumes.GetResume(ctx, id)
	if err != nil {
		return "", false, err
	}
	if resume == nil || resume.UserID != o.userID {
		return "", false, nil
	}
	return resume.Content, true, nil
}
