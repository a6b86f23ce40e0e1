package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jane.html"), []byte("<p>Jane</p>"), 0644))
	store := dirStore{dir: dir}
	ctx := context.Background()

	content, ok, err := store.GetResumeContent(ctx, "jane")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>Jane</p>", content)

	for _, id := range []string{"missing", "", "../jane", ".hidden", "a/b"} {
		_, ok, err := store.GetResumeContent(ctx, id)
		assert.NoError(t, err, id)
		assert.False(t, ok, id)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>Jane</h1>"), 0644))
	store := fileStore{id: documentID(path), path: path}

	content, ok, err := store.GetResumeContent(context.Background(), "resume")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<h1>Jane</h1>", content)

	_, ok, err = store.GetResumeContent(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, ok)

	broken := fileStore{id: "gone", path: filepath.Join(t.TempDir(), "gone.html")}
	_, _, err = broken.GetResumeContent(context.Background(), "gone")
	assert.ErrorContains(t, err, "failed to read snapshot")
}

func TestOpenDocumentStore(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := openDocumentStore(ctx, "snap/resume.html", "dir", "")
	require.NoError(t, err)
	closeFn()
	assert.Equal(t, fileStore{id: "resume", path: "snap/resume.html"}, store)

	store, closeFn, err = openDocumentStore(ctx, "", "dir", "")
	require.NoError(t, err)
	closeFn()
	assert.Equal(t, dirStore{dir: "dir"}, store)

	_, _, err = openDocumentStore(ctx, "", "", "")
	assert.ErrorContains(t, err, "document source is required")
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fragment.html")
	require.NoError(t, os.WriteFile(path, []byte("<li>Go</li>"), 0644))

	v, err := readInput("<li>inline</li>")
	require.NoError(t, err)
	assert.Equal(t, "<li>inline</li>", v)

	v, err = readInput("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "<li>Go</li>", v)

	_, err = readInput("@/nonexistent/fragment.html")
	assert.Error(t, err)
}

func TestWriteOutput_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "result.json")
	require.NoError(t, writeOutput(path, []byte("{}")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
