package sectionupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_KeepsSafeMarkupVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{"apostrophe and quotes", `<p>I'm a "senior" engineer.</p>`},
		{"nbsp entities", `<p><strong>Acme</strong>&nbsp;&nbsp;&nbsp;&nbsp;2020 - 2023</p>`},
		{"link without rel", `<p><a href="https://example.com/me">example.com/me</a></p>`},
		{"ampersand entity", `<li>R&amp;D budget</li>`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fragment, sanitize(tt.fragment))
		})
	}
}

func TestSanitize_RemovesUnsafeMarkup(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		absent   string
		kept     string
	}{
		{"script", `<p>I'm here</p><script>bad()</script>`, "script", "<p>"},
		{"leading style element", `<style>p{color:red}</style><p>x</p>`, "style", "<p>x</p>"},
		{"event handler", `<p onclick="x()">New</p>`, "onclick", "New"},
		{"javascript link", `<a href="javascript:alert(1)">x</a>`, "javascript", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize(tt.fragment)
			assert.NotContains(t, got, tt.absent)
			assert.Contains(t, got, tt.kept)
		})
	}
}

func TestSameMarkup(t *testing.T) {
	assert.True(t, sameMarkup(`<p>I'm</p>`, `<p>I&#39;m</p>`))
	assert.True(t, sameMarkup(`<a href="x" title="y">a</a>`, `<a title="y" href="x">a</a>`))
	assert.False(t, sameMarkup(`<a href="x">a</a>`, `<a href="x" rel="nofollow">a</a>`))
	assert.False(t, sameMarkup(`<p>a</p><!-- note -->`, `<p>a</p>`))
	assert.False(t, sameMarkup(`<p>a</p>`, `<p>a</p><p>b</p>`))
}
