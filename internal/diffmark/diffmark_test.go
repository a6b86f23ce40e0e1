package diffmark

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Identical(t *testing.T) {
	fragment := `<p><strong>Engineer</strong> | Acme | Remote</p><ul><li>Built things</li></ul>`

	out, err := Render(fragment, fragment)
	require.NoError(t, err)
	assert.Equal(t, fragment, out)
	assert.NotContains(t, out, "<mark")
}

func TestRender_AttributeOnlyChangeIsUnmarked(t *testing.T) {
	oldHTML := `<p style="text-align: left">Jane Doe</p>`
	newHTML := `<p style="text-align: center">Jane Doe</p>`

	out, err := Render(oldHTML, newHTML)
	require.NoError(t, err)
	assert.Equal(t, newHTML, out)
}

func TestRender_WordChange(t *testing.T) {
	out, err := Render(`<p>Led a team of 4 engineers</p>`, `<p>Led a team of 12 engineers</p>`)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<p>Led a team of "), out)
	assert.Contains(t, out, MarkRemoved("4"))
	assert.Contains(t, out, MarkAdded("12"))
	assert.True(t, strings.HasSuffix(out, " engineers</p>"), out)
}

func TestRender_KeepsNonBreakingSpaceRuns(t *testing.T) {
	const gap = "\u00a0\u00a0\u00a0\u00a0"
	tests := []struct {
		name    string
		oldHTML string
		newHTML string
		added   string
	}{
		{
			name:    "changed text block",
			oldHTML: `<p>Acme&nbsp;&nbsp;&nbsp;&nbsp;2020</p>`,
			newHTML: `<p>Globex&nbsp;&nbsp;&nbsp;&nbsp;2020</p>`,
			added:   "Globex",
		},
		{
			name:    "experience header with bold company",
			oldHTML: `<p><strong>Acme</strong>&nbsp;&nbsp;&nbsp;&nbsp;2020 - 2023</p>`,
			newHTML: `<p><strong>Globex</strong>&nbsp;&nbsp;&nbsp;&nbsp;2020 - 2023</p>`,
			added:   "Globex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(tt.oldHTML, tt.newHTML)
			require.NoError(t, err)
			assert.Contains(t, out, gap+"2020", out)
			assert.NotContains(t, out, " 2020", out)
			assert.Contains(t, out, tt.added)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, " Led a team ", normalize("\n  Led\ta   team\n"))
	assert.Equal(t, "Acme\u00a0\u00a02020", normalize("Acme\u00a0\u00a02020"))
}

func TestRender_AddedListItem(t *testing.T) {
	oldHTML := `<ul><li>Shipped v1</li></ul>`
	newHTML := `<ul><li>Shipped v1</li><li>Cut latency by 40%</li></ul>`

	out, err := Render(oldHTML, newHTML)
	require.NoError(t, err)
	assert.Equal(t, `<ul><li>Shipped v1</li><li>`+MarkAdded("Cut latency by 40%")+`</li></ul>`, out)
}

func TestRender_RemovedBlock(t *testing.T) {
	oldHTML := `<p>Summary</p><p>Obsolete line</p>`
	newHTML := `<p>Summary</p>`

	out, err := Render(oldHTML, newHTML)
	require.NoError(t, err)
	assert.Equal(t, `<p>Summary</p><p>`+MarkRemoved("Obsolete line")+`</p>`, out)
}

func TestRender_InlineFormattingPreserved(t *testing.T) {
	oldHTML := `<p><strong>Engineer</strong> | Acme</p>`
	newHTML := `<p><strong>Engineer</strong> | Globex</p>`

	out, err := Render(oldHTML, newHTML)
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Engineer</strong>")
	assert.Contains(t, out, MarkRemoved("Acme"))
	assert.Contains(t, out, MarkAdded("Globex"))
}

func TestRender_EscapesText(t *testing.T) {
	out, err := Render(`<p>R&amp;D</p>`, `<p>R&amp;D &lt;lead&gt;</p>`)
	require.NoError(t, err)
	assert.Contains(t, out, "R&amp;D")
	assert.Contains(t, out, "&lt;lead&gt;")
	assert.NotContains(t, out, "<lead>")
}

func TestRender_EmptyOld(t *testing.T) {
	out, err := Render("", `<p>New section</p>`)
	require.NoError(t, err)
	assert.Equal(t, `<p>`+MarkAdded("New section")+`</p>`, out)
}

func TestMarkColors(t *testing.T) {
	assert.Equal(t, `<mark data-color="#ffc9c9" style="background-color: #ffc9c9">x</mark>`, MarkRemoved("x"))
	assert.Equal(t, `<mark data-color="#b2f2bb" style="background-color: #b2f2bb">x</mark>`, MarkAdded("x"))
}
