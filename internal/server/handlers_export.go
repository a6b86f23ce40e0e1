package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-editor/internal/storage"
)

// ExportResponse reports where a stored export was written.
type ExportResponse struct {
	Key   string `json:"key"`
	Bytes int    `json:"bytes"`
}

// handleExportPDF prints the resume. With ?store=1 the PDF is uploaded to the export
// bucket and the object key is returned instead of the file.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resume, err := s.ownedResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if s.renderer == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "PDF export"})
		return
	}
	store, _ := strconv.ParseBool(r.URL.Query().Get("store"))
	if store && s.exports == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "export storage"})
		return
	}

	pdf, err := s.renderer.PDF(r.Context(), resume.Title, resume.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if store {
		key := storage.ExportKey(resume.ID.String(), s.now().UTC().Format("20060102T150405Z"), "pdf")
		if err := s.exports.Put(r.Context(), key, "application/pdf", pdf); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ExportResponse{Key: key, Bytes: len(pdf)})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resume.Title+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
