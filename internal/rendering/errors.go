// Package rendering turns stored resume HTML into printable documents.
package rendering

import "fmt"

// Stage names the step of an export that failed.
type Stage string

const (
	StageTemplate Stage = "template"
	StagePrint    Stage = "print"
)

// Error is returned by Document and Renderer.PDF.
type Error struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Stage) + " error: " + e.Message
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func templateErr(msg string, cause error) error {
	return &Error{Stage: StageTemplate, Message: msg, Cause: cause}
}
