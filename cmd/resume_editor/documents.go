package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/sectionupdate"
)

// dirStore reads documents from <dir>/<documentId>.html.
type dirStore struct {
	dir string
}

func (s dirStore) GetResumeContent(_ context.Context, documentID string) (string, bool, error) {
	if documentID == "" || documentID != filepath.Base(documentID) || strings.HasPrefix(documentID, ".") {
		return "", false, nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, documentID+".html"))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read document %s: %w", documentID, err)
	}
	return string(data), true, nil
}

// fileStore serves a single snapshot file under one document id.
type fileStore struct {
	id   string
	path string
}

func (s fileStore) GetResumeContent(_ context.Context, documentID string) (string, bool, error) {
	if documentID != s.id {
		return "", false, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}
	return string(data), true, nil
}

// documentID derives a document id from a snapshot path: its base name without extension.
func documentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openDocumentStore picks the document store for the offline commands. A snapshot file wins
// over a snapshot directory, which wins over the database. The returned close func is never nil.
func openDocumentStore(ctx context.Context, snapshotFile, snapshotDir, databaseURL string) (sectionupdate.DocumentStore, func(), error) {
	switch {
	case snapshotFile != "":
		return fileStore{id: documentID(snapshotFile), path: snapshotFile}, func() {}, nil
	case snapshotDir != "":
		return dirStore{dir: snapshotDir}, func() {}, nil
	case databaseURL != "":
		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return database, database.Close, nil
	default:
		return nil, nil, fmt.Errorf("a document source is required: --snapshot, --snapshot-dir or DATABASE_URL")
	}
}

// readInput returns the flag value, or the file contents when the value starts with "@".
func readInput(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimPrefix(value, "@"), err)
	}
	return string(data), nil
}

// writeOutput writes data to path, creating parent directories, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
