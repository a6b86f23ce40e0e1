package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n  - Item 2\n* Item 3"
	result := CleanText(input)

	assert.Equal(t, "- Item 1\n- Item 2\n* Item 3", result)
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with \t multiple  spaces   "
	result := CleanText(input)

	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n\n\t  \n"))
}

func TestIsHeadingLine(t *testing.T) {
	tests := map[string]bool{
		"EXPERIENCE":       true,
		"## Projects":      true,
		"WORK HISTORY":     true,
		"Experience":       false,
		"2020 - 2022":      false,
		"JANE@EXAMPLE.COM": false,
	}
	tests["A VERY LONG LINE IN ALL CAPS THAT IS NOT A TITLE"] = false
	for line, want := range tests {
		assert.Equal(t, want, isHeadingLine(line), line)
	}
}

func TestTextToHTML(t *testing.T) {
	input := `Jane Doe
jane@example.com | 555-0100

EXPERIENCE
Senior Engineer, Acme
- Built the billing pipeline
• Cut p99 latency by 40%

EDUCATION
B.S. Computer Science <Honors>`

	expected := `<h1>Jane Doe</h1>` +
		`<p>jane@example.com | 555-0100</p>` +
		`<h2>EXPERIENCE</h2>` +
		`<p>Senior Engineer, Acme</p>` +
		`<ul><li><p>Built the billing pipeline</p></li><li><p>Cut p99 latency by 40%</p></li></ul>` +
		`<h2>EDUCATION</h2>` +
		`<p>B.S. Computer Science &lt;Honors&gt;</p>`

	assert.Equal(t, expected, TextToHTML(input))
}

func TestTextToHTML_MultiLineParagraph(t *testing.T) {
	assert.Equal(t, "<h1>Name</h1><p>line one<br>line two</p>", TextToHTML("Name\n\nline one\nline two"))
}

func TestTextToHTML_Empty(t *testing.T) {
	assert.Equal(t, "", TextToHTML("  "))
}
