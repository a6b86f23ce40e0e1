package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/events"
	"github.com/jonathan/resume-editor/internal/ingestion"
)

// maxUploadBytes bounds imported documents.
const maxUploadBytes = 10 << 20

// ResumeRequest is the body of resume create and update calls.
type ResumeRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content"`
}

// ImportResponse is returned by the import endpoint.
type ImportResponse struct {
	Resume   *db.Resume          `json:"resume"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resumes)
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req ResumeRequest
	if !decodeAndValidate(w, r, s.validator, &req) {
		return
	}

	resume, err := s.store.CreateResume(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resume)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resume, err := s.ownedResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resume, err := s.ownedResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req ResumeRequest
	if !decodeAndValidate(w, r, s.validator, &req) {
		return
	}

	if err := s.store.UpdateResume(r.Context(), resume.ID, req.Title, req.Content); err != nil {
		if errors.Is(err, db.ErrResumeNotFound) {
			err = &ErrResumeNotFound{ResumeID: resume.ID.String()}
		}
		writeServiceError(w, err)
		return
	}
	s.publish(r, events.Event{Type: events.TypeResumeUpdated, ResumeID: resume.ID.String()})

	resume.Title, resume.Content = req.Title, req.Content
	resume.UpdatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, resume)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resume, err := s.ownedResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := s.store.DeleteResume(r.Context(), resume.ID); err != nil && !errors.Is(err, db.ErrResumeNotFound) {
		writeServiceError(w, err)
		return
	}
	s.publish(r, events.Event{Type: events.TypeResumeDeleted, ResumeID: resume.ID.String()})
	w.WriteHeader(http.StatusNoContent)
}

// handleImportResume converts an uploaded PDF, DOCX or text file into a new resume.
// Multipart fields: file (required), title (optional, defaults to the file name).
func (s *Server) handleImportResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	imported, err := ingestion.ImportDocument(header.Filename, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(header.Filename, fileExt(header.Filename))
	}

	resume, err := s.store.CreateResume(r.Context(), userID, title, imported.HTML)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ImportResponse{Resume: resume, Metadata: imported.Metadata})
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i:]
	}
	return ""
}

// publish sends a change event; failures are logged since the write already committed.
func (s *Server) publish(r *http.Request, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.events.Publish(r.Context(), event); err != nil {
		s.logger.Warn("failed to publish change event", "type", event.Type, "resume_id", event.ResumeID, "error", err)
	}
}
