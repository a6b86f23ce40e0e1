package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes an imported document
type Metadata struct {
	Filename  string `json:"filename,omitempty"`
	MIME      string `json:"mime"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the original bytes
	Bytes     int    `json:"bytes"`
}

// Import is the result of converting an uploaded document.
type Import struct {
	Text     string
	HTML     string
	Metadata *Metadata
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(filename, mime string, data []byte) *Metadata {
	return &Metadata{
		Filename:  filename,
		MIME:      mime,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(data),
		Bytes:     len(data),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ImportDocument detects the type, extracts text and converts it to HTML.
func ImportDocument(filename string, data []byte) (*Import, error) {
	mime := DetectMIME(filename, data)
	text, err := ExtractText(mime, data)
	if err != nil {
		return nil, err
	}
	cleaned := CleanText(text)
	return &Import{
		Text:     cleaned,
		HTML:     TextToHTML(cleaned),
		Metadata: NewMetadata(filename, mime, data),
	}, nil
}
