package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/sectionupdate"
	"github.com/jonathan/resume-editor/internal/tool"
)

// ToolCallRequest is the body of a tool call; the tool name comes from the path.
type ToolCallRequest struct {
	ID        string         `json:"id,omitempty"`
	Arguments map[string]any `json:"arguments"`
}

// DetectModeRequest asks whether an instruction replaces or adds content.
type DetectModeRequest struct {
	Request string `json:"request" validate:"required"`
}

// DetectModeResponse answers a DetectModeRequest.
type DetectModeResponse struct {
	Mode string `json:"mode"`
}

// registryFor builds the tool registry for one user; every agent reads only that user's resumes.
func (s *Server) registryFor(userID uuid.UUID) *tool.Registry {
	sections := sectionupdate.Sections()
	runners := make([]tool.Runner, 0, len(sections))
	for _, section := range sections {
		runners = append(runners, s.agentFor(section, userID))
	}
	return tool.NewRegistry(runners...)
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	defs, err := s.registryFor(uuid.Nil).Definitions()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req ToolCallRequest
	if !decodeAndValidate(w, r, s.validator, &req) {
		return
	}
	if s.llm == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "text generation"})
		return
	}

	result, err := s.registryFor(userID).Execute(r.Context(), tool.Call{
		ID:        req.ID,
		Name:      r.PathValue("name"),
		Arguments: req.Arguments,
	})
	if errors.Is(err, tool.ErrToolUnregistered) || errors.Is(err, tool.ErrToolNameEmpty) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDetectMode always answers "replace".
// TODO: classify with the lite model tier once add-mode edits are supported.
func (s *Server) handleDetectMode(w http.ResponseWriter, r *http.Request) {
	var req DetectModeRequest
	if !decodeAndValidate(w, r, s.validator, &req) {
		return
	}
	writeJSON(w, http.StatusOK, DetectModeResponse{Mode: "replace"})
}
