package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordSectionEdit appends an entry to a resume's edit log
func (db *DB) RecordSectionEdit(ctx context.Context, edit *SectionEdit) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO section_edits (resume_id, section_kind, outcome, reason, instruction)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		edit.ResumeID, edit.SectionKind, edit.Outcome, edit.Reason, edit.Instruction,
	).Scan(&edit.ID, &edit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record section edit: %w", err)
	}
	return nil
}

// ListSectionEdits returns a resume's edit log, newest first
func (db *DB) ListSectionEdits(ctx context.Context, resumeID uuid.UUID, limit int) ([]SectionEdit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, section_kind, outcome, reason, instruction, created_at
		 FROM section_edits WHERE resume_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		resumeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list section edits: %w", err)
	}
	defer rows.Close()

	edits := []SectionEdit{}
	for rows.Next() {
		var e SectionEdit
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.SectionKind, &e.Outcome, &e.Reason, &e.Instruction, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan section edit: %w", err)
		}
		edits = append(edits, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list section edits: %w", err)
	}
	return edits, nil
}
