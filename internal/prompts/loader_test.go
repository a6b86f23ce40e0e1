package prompts

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get(SectionsFile, "role")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "rich-text editor")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(SectionsFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	assert.NotPanics(t, func() {
		prompt := MustGet(SectionsFile, "role")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	keys, err := List(SectionsFile)
	require.NoError(t, err)
	assert.Contains(t, keys, "task")
	assert.IsNonDecreasing(t, keys)
}

func TestGet_ConcurrentFirstLoad(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]string, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = Get(SectionsFile, "task")
		}()
	}
	wg.Wait()

	for _, text := range got {
		assert.Equal(t, got[0], text)
		assert.NotEmpty(t, text)
	}
}

func TestGet_MissingFileStaysMissing(t *testing.T) {
	_, first := Get("missing.json", "role")
	_, second := Get("missing.json", "role")
	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
}

func TestFormat_DoesNotExpandPlaceholdersInValues(t *testing.T) {
	template := "A={{.A}} B={{.B}}"
	data := map[string]string{
		"A": "{{.B}}",
		"B": "b",
	}

	assert.Equal(t, "A={{.B}} B=b", Format(template, data))
}

func TestSectionsFile_HasRulesForEveryKind(t *testing.T) {
	for _, key := range []string{
		"rules-experience", "rules-education", "rules-contact", "rules-projects", "rules-general",
		"role", "output-contract", "diff-rules", "task", "retry-stale", "retry-generation",
	} {
		prompt, err := Get(SectionsFile, key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestSectionsFile_TaskOrder(t *testing.T) {
	task := MustGet(SectionsFile, "task")
	out := Format(task, map[string]string{
		"ChangeDescription": "CHANGE",
		"UserInstruction":   "INSTRUCTION",
		"HTMLFragment":      "FRAGMENT",
	})

	c := strings.Index(out, "CHANGE")
	i := strings.Index(out, "INSTRUCTION")
	f := strings.Index(out, "FRAGMENT")
	assert.True(t, c >= 0 && c < i && i < f, out)
}
