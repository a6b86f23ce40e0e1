package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/events"
)

func TestResumeCRUD(t *testing.T) {
	env := newTestEnv(t, Deps{})
	_, token := env.user(t)

	w := env.do(t, http.MethodPost, "/resumes", token, ResumeRequest{Title: "Backend", Content: "<p>Old</p>"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created db.Resume
	decodeBody(t, w, &created)
	assert.Equal(t, "Backend", created.Title)

	w = env.do(t, http.MethodGet, "/resumes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []db.ResumeSummary
	decodeBody(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	w = env.do(t, http.MethodPut, "/resumes/"+created.ID.String(), token, ResumeRequest{Title: "Platform", Content: "<p>New</p>"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated db.Resume
	decodeBody(t, w, &updated)
	assert.Equal(t, "Platform", updated.Title)
	assert.Equal(t, "<p>New</p>", updated.Content)

	w = env.do(t, http.MethodGet, "/resumes/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Platform")

	w = env.do(t, http.MethodDelete, "/resumes/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/resumes/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{events.TypeResumeUpdated, events.TypeResumeDeleted}, env.published.types())
}

func TestCreateResume_RequiresTitle(t *testing.T) {
	env := newTestEnv(t, Deps{})
	_, token := env.user(t)

	w := env.do(t, http.MethodPost, "/resumes", token, ResumeRequest{Content: "<p>x</p>"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title")
}

func TestResume_OwnershipIsNotFound(t *testing.T) {
	env := newTestEnv(t, Deps{})
	owner, _ := env.user(t)
	_, intruder := env.user(t)
	resume := env.resume(t, owner, "<p>private</p>")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := env.do(t, method, "/resumes/"+resume.ID.String(), intruder, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
	w := env.do(t, http.MethodPut, "/resumes/"+resume.ID.String(), intruder, ResumeRequest{Title: "mine"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/resumes/not-a-uuid", intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/resumes/"+uuid.NewString(), intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func upload(t *testing.T, env *testEnv, token, filename string, content []byte, title string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if title != "" {
		require.NoError(t, mw.WriteField("title", title))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resumes/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	return w
}

func TestImportResume(t *testing.T) {
	env := newTestEnv(t, Deps{})
	_, token := env.user(t)

	text := "Jane Doe\n\nEXPERIENCE\n- Built billing APIs in Go\n"
	w := upload(t, env, token, "jane_resume.txt", []byte(text), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp ImportResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "jane_resume", resp.Resume.Title)
	assert.Contains(t, resp.Resume.Content, "<h1>Jane Doe</h1>")
	assert.Contains(t, resp.Resume.Content, "Built billing APIs in Go")
	assert.Equal(t, "text/plain", resp.Metadata.MIME)
	assert.NotEmpty(t, resp.Metadata.Hash)
}

func TestImportResume_Errors(t *testing.T) {
	env := newTestEnv(t, Deps{})
	_, token := env.user(t)

	w := upload(t, env, token, "photo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), "Photo")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = upload(t, env, token, "broken.pdf", []byte("%PDF-1.4 truncated"), "Broken")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/resumes/import", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
