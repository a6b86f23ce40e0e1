package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/events"
	"github.com/jonathan/resume-editor/internal/sectionupdate"
	"github.com/jonathan/resume-editor/internal/types"
)

// SectionUpdateRequest is the body of a section update. The document is the resume in the path.
type SectionUpdateRequest struct {
	HTMLFragment      string `json:"htmlFragment" validate:"required"`
	ChangeDescription string `json:"changeDescription"`
	UserInstruction   string `json:"userInstruction"`
}

// ApplySectionRequest writes an accepted fragment back into the resume.
type ApplySectionRequest struct {
	SectionKind string `json:"sectionKind" validate:"required"`
	OldFragment string `json:"oldFragment" validate:"required"`
	NewFragment string `json:"newFragment" validate:"required"`
	Instruction string `json:"instruction,omitempty"`
}

// ApplySectionResponse carries the resume content after write-back.
type ApplySectionResponse struct {
	ResumeID uuid.UUID `json:"resume_id"`
	Content  string    `json:"content"`
}

func (s *Server) handleListSections(w http.ResponseWriter, _ *http.Request) {
	sections := sectionupdate.Sections()
	infos := make([]types.SectionInfo, 0, len(sections))
	for _, section := range sections {
		infos = append(infos, section.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

func lookupSection(name string) (sectionupdate.Config, bool) {
	kind, err := types.ParseSectionKind(name)
	if err != nil {
		return sectionupdate.Config{}, false
	}
	return sectionupdate.Lookup(kind)
}

func (s *Server) agentFor(section sectionupdate.Config, userID uuid.UUID) *sectionupdate.Agent {
	return sectionupdate.New(s.llm, ownerStore{resumes: s.store, userID: userID}, section,
		sectionupdate.WithLogger(s.logger))
}

// handleUpdateSection runs one section edit and records its outcome. Both outcomes answer
// 200: a rejected edit is a result, not a transport failure.
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	kind := r.PathValue("kind")
	section, found := lookupSection(kind)
	if !found {
		writeServiceError(w, &ErrUnknownSection{Kind: kind})
		return
	}
	resume, err := s.ownedResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if s.llm == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "text generation"})
		return
	}

	var body SectionUpdateRequest
	if !decodeAndValidate(w, r, s.validator, &body) {
		return
	}
	req := types.EditRequest{
		HTMLFragment:      body.HTMLFragment,
		ChangeDescription: body.ChangeDescription,
		UserInstruction:   body.UserInstruction,
		DocumentID:        resume.ID.String(),
	}

	result := s.agentFor(section, userID).Run(r.Context(), req)
	s.recordEdit(r, resume.ID, section.Kind, result, req.UserInstruction)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) recordEdit(r *http.Request, resumeID uuid.UUID, kind types.SectionKind, result types.EditResult, instruction string) {
	edit := &db.SectionEdit{
		ResumeID:    resumeID,
		SectionKind: string(kind),
		Outcome:     db.OutcomeAccepted,
		Instruction: instruction,
	}
	if rejected, ok := result.(*types.Rejected); ok {
		edit.Outcome = db.OutcomeRejected
		edit.Reason = string(rejected.Reason)
	}
	if err := s.store.RecordSectionEdit(r.Context(), edit); err != nil {
		s.logger.Warn("failed to record section edit", "resume_id", resumeID, "error", err)
	}
}

// handleApplySection replaces oldFragment with newFragment in the stored resume.
// A resume that changed since the edit was generated answers 409.
func (s *Server) handleApplySection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resume, err := s.ownedResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req ApplySectionRequest
	if !decodeAndValidate(w, r, s.validator, &req) {
		return
	}
	section, found := lookupSection(req.SectionKind)
	if !found {
		writeServiceError(w, &ErrValidation{Field: "sectionKind", Message: "unknown section"})
		return
	}

	content, err := s.store.ApplySectionEdit(r.Context(), resume.ID, req.OldFragment, req.NewFragment)
	switch {
	case errors.Is(err, db.ErrFragmentNotFound):
		writeServiceError(w, &ErrStaleFragment{ResumeID: resume.ID})
		return
	case errors.Is(err, db.ErrResumeNotFound):
		writeServiceError(w, &ErrResumeNotFound{ResumeID: resume.ID.String()})
		return
	case err != nil:
		writeServiceError(w, err)
		return
	}

	edit := &db.SectionEdit{
		ResumeID:    resume.ID,
		SectionKind: string(section.Kind),
		Outcome:     db.OutcomeApplied,
		Instruction: req.Instruction,
	}
	if err := s.store.RecordSectionEdit(r.Context(), edit); err != nil {
		s.logger.Warn("failed to record applied edit", "resume_id", resume.ID, "error", err)
	}
	s.publish(r, events.Event{Type: events.TypeSectionApplied, ResumeID: resume.ID.String(), SectionKind: string(section.Kind)})

	writeJSON(w, http.StatusOK, ApplySectionResponse{ResumeID: resume.ID, Content: content})
}

func (s *Server) handleListEdits(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resume, err := s.ownedResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeServiceError(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
	}

	edits, err := s.store.ListSectionEdits(r.Context(), resume.ID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edits)
}
