package llm

import "fmt"

// APIError represents a failed call to the model provider
type APIError struct {
	Message string
	Model   string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm api error (%s): %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("llm api error (%s): %s", e.Model, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
