package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/events"
	"github.com/jonathan/resume-editor/internal/types"
)

const resumeHTML = `<h1>Jane Doe</h1><p>Backend engineer</p><ul><li><p>Built billing APIs</p></li></ul>`

func TestListSections(t *testing.T) {
	env := newTestEnv(t, Deps{})

	w := env.do(t, http.MethodGet, "/sections", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var infos []types.SectionInfo
	decodeBody(t, w, &infos)
	require.Len(t, infos, len(types.AllSectionKinds()))
	assert.Equal(t, types.SectionExperience, infos[0].Kind)
	assert.Equal(t, "update_experience_section", infos[0].Tool)
	assert.True(t, infos[0].WithDiff)
}

func TestUpdateSection_Accepted(t *testing.T) {
	env := newTestEnv(t, Deps{LLM: &stubLLM{
		response: `{"oldFragment":"<p>Backend engineer</p>","newFragment":"<p>Senior backend engineer</p>"}`,
	}})
	userID, token := env.user(t)
	resume := env.resume(t, userID, resumeHTML)

	w := env.do(t, http.MethodPost, "/resumes/"+resume.ID.String()+"/sections/general/update", token, SectionUpdateRequest{
		HTMLFragment:    "<p>Backend engineer</p>",
		UserInstruction: "say senior",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result, err := types.DecodeEditResult(w.Body.Bytes())
	require.NoError(t, err)
	accepted, ok := result.(*types.Accepted)
	require.True(t, ok, w.Body.String())
	assert.Equal(t, "<p>Backend engineer</p>", accepted.OldFragment)
	assert.Equal(t, "<p>Senior backend engineer</p>", accepted.NewFragment)
	assert.Equal(t, resumeHTML, accepted.DocumentSnapshot)

	require.Len(t, env.store.edits, 1)
	assert.Equal(t, db.OutcomeAccepted, env.store.edits[0].Outcome)
	assert.Equal(t, "say senior", env.store.edits[0].Instruction)
}

func TestUpdateSection_RejectedIsStillOK(t *testing.T) {
	env := newTestEnv(t, Deps{LLM: &stubLLM{err: errors.New("quota exceeded")}})
	userID, token := env.user(t)
	resume := env.resume(t, userID, resumeHTML)

	w := env.do(t, http.MethodPost, "/resumes/"+resume.ID.String()+"/sections/general/update", token, SectionUpdateRequest{
		HTMLFragment: "<p>Backend engineer</p>",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	result, err := types.DecodeEditResult(w.Body.Bytes())
	require.NoError(t, err)
	rejected := result.(*types.Rejected)
	assert.Equal(t, types.ReasonGeneration, rejected.Reason)
	assert.Equal(t, "<p>Backend engineer</p>", rejected.FallbackFragment)

	require.Len(t, env.store.edits, 1)
	assert.Equal(t, db.OutcomeRejected, env.store.edits[0].Outcome)
	assert.Equal(t, string(types.ReasonGeneration), env.store.edits[0].Reason)
}

func TestUpdateSection_Errors(t *testing.T) {
	env := newTestEnv(t, Deps{LLM: &stubLLM{response: `{}`}})
	userID, token := env.user(t)
	resume := env.resume(t, userID, resumeHTML)
	base := "/resumes/" + resume.ID.String() + "/sections/"

	w := env.do(t, http.MethodPost, base+"hobbies/update", token, SectionUpdateRequest{HTMLFragment: "<p>x</p>"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown section")

	w = env.do(t, http.MethodPost, base+"general/update", token, SectionUpdateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, intruder := env.user(t)
	w = env.do(t, http.MethodPost, base+"general/update", intruder, SectionUpdateRequest{HTMLFragment: "<p>x</p>"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	noModel := newTestEnv(t, Deps{})
	ownerID, ownerToken := noModel.user(t)
	r := noModel.resume(t, ownerID, resumeHTML)
	w = noModel.do(t, http.MethodPost, "/resumes/"+r.ID.String()+"/sections/general/update", ownerToken, SectionUpdateRequest{HTMLFragment: "<p>x</p>"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestApplySection(t *testing.T) {
	env := newTestEnv(t, Deps{})
	userID, token := env.user(t)
	resume := env.resume(t, userID, resumeHTML)
	path := "/resumes/" + resume.ID.String() + "/sections/apply"

	w := env.do(t, http.MethodPost, path, token, ApplySectionRequest{
		SectionKind: "general",
		OldFragment: "<p>Backend engineer</p>",
		NewFragment: "<p>Senior backend engineer</p>",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ApplySectionResponse
	decodeBody(t, w, &resp)
	assert.Contains(t, resp.Content, "<p>Senior backend engineer</p>")
	assert.NotContains(t, resp.Content, "<p>Backend engineer</p>")

	// Same old fragment again: the resume has moved on.
	w = env.do(t, http.MethodPost, path, token, ApplySectionRequest{
		SectionKind: "general",
		OldFragment: "<p>Backend engineer</p>",
		NewFragment: "<p>Other</p>",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, path, token, ApplySectionRequest{
		SectionKind: "hobbies",
		OldFragment: "<p>a</p>",
		NewFragment: "<p>b</p>",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []string{events.TypeSectionApplied}, env.published.types())

	w = env.do(t, http.MethodGet, "/resumes/"+resume.ID.String()+"/edits", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var edits []db.SectionEdit
	decodeBody(t, w, &edits)
	require.Len(t, edits, 1)
	assert.Equal(t, db.OutcomeApplied, edits[0].Outcome)
}

func TestListEdits_Limit(t *testing.T) {
	env := newTestEnv(t, Deps{})
	userID, token := env.user(t)
	resume := env.resume(t, userID, resumeHTML)
	for i := 0; i < 3; i++ {
		env.store.edits = append(env.store.edits, db.SectionEdit{ResumeID: resume.ID, Outcome: db.OutcomeAccepted})
	}
	path := "/resumes/" + resume.ID.String() + "/edits"

	w := env.do(t, http.MethodGet, path+"?limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var edits []db.SectionEdit
	decodeBody(t, w, &edits)
	assert.Len(t, edits, 2)

	w = env.do(t, http.MethodGet, path+"?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
