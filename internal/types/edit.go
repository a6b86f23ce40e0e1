package types

import (
	"encoding/json"
	"fmt"
)

// EditRequest is one natural-language edit of a single resume section.
type EditRequest struct {
	HTMLFragment      string `json:"htmlFragment" validate:"required"`
	ChangeDescription string `json:"changeDescription"`
	UserInstruction   string `json:"userInstruction"`
	DocumentID        string `json:"documentId" validate:"required"`
}

// FailureReason classifies a rejected edit.
type FailureReason string

const (
	// ReasonGeneration means the backend call failed or its output could not be decoded.
	ReasonGeneration FailureReason = "generation_failure"
	// ReasonValidation means the generated fragment could not be traced to the live document.
	ReasonValidation FailureReason = "validation_failure"
)

// EditResult is either *Accepted or *Rejected.
type EditResult interface {
	// Succeeded reports whether the edit was accepted.
	Succeeded() bool
	// Snapshot returns the document content read during validation, if any.
	Snapshot() string
	isEditResult()
}

// Accepted carries an edit that passed validation.
type Accepted struct {
	OldFragment      string `json:"oldFragment"`
	NewFragment      string `json:"newFragment"`
	DiffFragment     string `json:"diffFragment,omitempty"`
	DocumentSnapshot string `json:"documentSnapshot"`
}

// Rejected carries a failed edit. FallbackFragment is always the caller's original fragment.
type Rejected struct {
	Reason           FailureReason `json:"reason"`
	Detail           string        `json:"error"`
	FallbackFragment string        `json:"fallbackFragment"`
	DocumentSnapshot string        `json:"documentSnapshot"`
	RetryGuidance    string        `json:"retryGuidance"`
}

func (*Accepted) isEditResult() {}
func (*Rejected) isEditResult() {}

// Succeeded implements EditResult.
func (*Accepted) Succeeded() bool { return true }

// Succeeded implements EditResult.
func (*Rejected) Succeeded() bool { return false }

// Snapshot implements EditResult.
func (a *Accepted) Snapshot() string { return a.DocumentSnapshot }

// Snapshot implements EditResult.
func (r *Rejected) Snapshot() string { return r.DocumentSnapshot }

// MarshalJSON adds the success discriminator.
func (a *Accepted) MarshalJSON() ([]byte, error) {
	type accepted Accepted
	return json.Marshal(struct {
		Success bool `json:"success"`
		*accepted
	}{Success: true, accepted: (*accepted)(a)})
}

// MarshalJSON adds the success discriminator.
func (r *Rejected) MarshalJSON() ([]byte, error) {
	type rejected Rejected
	return json.Marshal(struct {
		Success bool `json:"success"`
		*rejected
	}{Success: false, rejected: (*rejected)(r)})
}

// DecodeEditResult parses the wire form produced by MarshalJSON.
func DecodeEditResult(data []byte) (EditResult, error) {
	var head struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode edit result: %w", err)
	}
	if head.Success == nil {
		return nil, fmt.Errorf("edit result is missing the success field")
	}
	if *head.Success {
		var a Accepted
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to decode accepted edit: %w", err)
		}
		return &a, nil
	}
	var r Rejected
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode rejected edit: %w", err)
	}
	return &r, nil
}
