// Package ingestion imports existing resumes (PDF, DOCX or plain text) as editable HTML.
package ingestion

import "fmt"

// ExtractError reports a document whose text could not be read.
type ExtractError struct {
	MIME  string
	Cause error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.MIME, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// UnsupportedTypeError reports an upload whose type is not importable.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MIME)
}
