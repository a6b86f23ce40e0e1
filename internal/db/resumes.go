package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateResume stores a new resume and returns it
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title, content string) (*Resume, error) {
	r := Resume{UserID: userID, Title: title, Content: content}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		userID, title, content,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return &r, nil
}

// GetResume retrieves a resume by ID. Returns nil, nil when not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// GetResumeContent returns the current content of a resume.
// Unknown or malformed IDs report ok=false rather than an error.
func (db *DB) GetResumeContent(ctx context.Context, documentID string) (string, bool, error) {
	id, err := uuid.Parse(documentID)
	if err != nil {
		return "", false, nil
	}
	var content string
	err = db.pool.QueryRow(ctx, `SELECT content FROM resumes WHERE id = $1`, id).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get resume content: %w", err)
	}
	return content, true, nil
}

// ListResumes lists a user's resumes, most recently updated first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, updated_at FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []ResumeSummary{}
	for rows.Next() {
		var r ResumeSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// UpdateResume replaces a resume's title and content
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, title, content string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET title = $1, content = $2, updated_at = NOW() WHERE id = $3`,
		title, content, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrResumeNotFound
	}
	return nil
}

// DeleteResume deletes a resume and its edit log (via cascade)
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrResumeNotFound
	}
	return nil
}

// ApplySectionEdit replaces the first occurrence of oldFragment with newFragment inside one
// transaction that holds the row lock, and returns the updated content.
func (db *DB) ApplySectionEdit(ctx context.Context, id uuid.UUID, oldFragment, newFragment string) (string, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var content string
	err = tx.QueryRow(ctx, `SELECT content FROM resumes WHERE id = $1 FOR UPDATE`, id).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrResumeNotFound
		}
		return "", fmt.Errorf("failed to lock resume: %w", err)
	}

	updated, ok := ReplaceFragment(content, oldFragment, newFragment)
	if !ok {
		return "", ErrFragmentNotFound
	}

	if _, err := tx.Exec(ctx,
		`UPDATE resumes SET content = $1, updated_at = NOW() WHERE id = $2`, updated, id,
	); err != nil {
		return "", fmt.Errorf("failed to write resume: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit section edit: %w", err)
	}
	return updated, nil
}

// ReplaceFragment replaces the first occurrence of the trimmed old fragment in content.
func ReplaceFragment(content, oldFragment, newFragment string) (string, bool) {
	old := strings.TrimSpace(oldFragment)
	if old == "" {
		return content, false
	}
	idx := strings.Index(content, old)
	if idx < 0 {
		return content, false
	}
	return content[:idx] + newFragment + content[idx+len(old):], true
}
