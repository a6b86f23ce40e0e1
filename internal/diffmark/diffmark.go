// Package diffmark renders an inline, highlight-marked diff between two HTML fragments.
//
// Blocks are aligned by their text content. Blocks whose text is unchanged are emitted
// with the new markup and no marks, so attribute-only edits never show up as changes.
// Changed text is wrapped in highlight marks understood by the resume editor.
package diffmark

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Highlight colors used by the editor for removed and added text.
const (
	RemovedColor = "#ffc9c9"
	AddedColor   = "#b2f2bb"
)

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "wbr": true, "col": true, "meta": true, "link": true,
}

type block struct {
	sel  *goquery.Selection
	name string
	text string
}

// Render returns newHTML with text removed since oldHTML and text added in newHTML marked inline.
func Render(oldHTML, newHTML string) (string, error) {
	oldBlocks, err := parseBlocks(oldHTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse old fragment: %w", err)
	}
	newBlocks, err := parseBlocks(newHTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse new fragment: %w", err)
	}

	var sb strings.Builder
	renderBlocks(&sb, oldBlocks, newBlocks)
	return sb.String(), nil
}

// MarkRemoved wraps already-escaped HTML in the removed-text highlight.
func MarkRemoved(s string) string {
	return mark(RemovedColor, s)
}

// MarkAdded wraps already-escaped HTML in the added-text highlight.
func MarkAdded(s string) string {
	return mark(AddedColor, s)
}

func mark(color, s string) string {
	return `<mark data-color="` + color + `" style="background-color: ` + color + `">` + s + `</mark>`
}

func parseBlocks(fragment string) ([]block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}
	return collect(doc.Find("body").Contents()), nil
}

func collect(contents *goquery.Selection) []block {
	blocks := make([]block, 0, contents.Length())
	contents.Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "#comment" {
			return
		}
		blocks = append(blocks, block{sel: s, name: name, text: normalize(s.Text())})
	})
	return blocks
}

// normalize collapses runs of ASCII whitespace to single spaces, keeping a space at either
// edge. Non-breaking spaces are content: resume headers use runs of them to align dates.
func normalize(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if isASCIISpace(r) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// renderBlocks aligns two block sequences by text using a line diff where every block is one line.
func renderBlocks(sb *strings.Builder, oldBlocks, newBlocks []block) {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(joinTexts(oldBlocks), joinTexts(newBlocks))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	oi, ni := 0, 0
	var deleted, inserted []block
	flush := func() {
		pairs := min(len(deleted), len(inserted))
		for i := 0; i < pairs; i++ {
			renderChanged(sb, deleted[i], inserted[i])
		}
		for _, b := range deleted[pairs:] {
			renderRemoved(sb, b)
		}
		for _, b := range inserted[pairs:] {
			renderAdded(sb, b)
		}
		deleted, inserted = nil, nil
	}

	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			for i := 0; i < n && ni < len(newBlocks); i++ {
				sb.WriteString(outer(newBlocks[ni]))
				oi++
				ni++
			}
		case diffmatchpatch.DiffDelete:
			for i := 0; i < n && oi < len(oldBlocks); i++ {
				deleted = append(deleted, oldBlocks[oi])
				oi++
			}
		case diffmatchpatch.DiffInsert:
			for i := 0; i < n && ni < len(newBlocks); i++ {
				inserted = append(inserted, newBlocks[ni])
				ni++
			}
		}
	}
	flush()
}

func joinTexts(blocks []block) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderChanged(sb *strings.Builder, o, n block) {
	switch {
	case o.text == n.text:
		sb.WriteString(outer(n))
	case voidElements[n.name] || voidElements[o.name]:
		renderRemoved(sb, o)
		renderAdded(sb, n)
	case o.name == n.name && n.name != "#text" && (hasElementChildren(o) || hasElementChildren(n)):
		sb.WriteString(openTag(n))
		renderBlocks(sb, collect(o.sel.Contents()), collect(n.sel.Contents()))
		sb.WriteString(closeTag(n))
	case n.name == "#text":
		sb.WriteString(wordDiff(o.text, n.text))
	default:
		sb.WriteString(openTag(n))
		sb.WriteString(wordDiff(o.text, n.text))
		sb.WriteString(closeTag(n))
	}
}

func renderRemoved(sb *strings.Builder, b block) {
	switch {
	case strings.TrimSpace(b.text) == "" || voidElements[b.name]:
		return
	case b.name == "#text":
		sb.WriteString(MarkRemoved(html.EscapeString(b.text)))
	case hasElementChildren(b):
		sb.WriteString(openTag(b))
		for _, child := range collect(b.sel.Contents()) {
			renderRemoved(sb, child)
		}
		sb.WriteString(closeTag(b))
	default:
		sb.WriteString(openTag(b))
		sb.WriteString(MarkRemoved(html.EscapeString(b.text)))
		sb.WriteString(closeTag(b))
	}
}

func renderAdded(sb *strings.Builder, b block) {
	switch {
	case strings.TrimSpace(b.text) == "" || voidElements[b.name]:
		sb.WriteString(outer(b))
	case b.name == "#text":
		sb.WriteString(MarkAdded(html.EscapeString(b.text)))
	case hasElementChildren(b):
		sb.WriteString(openTag(b))
		for _, child := range collect(b.sel.Contents()) {
			renderAdded(sb, child)
		}
		sb.WriteString(closeTag(b))
	default:
		sb.WriteString(openTag(b))
		sb.WriteString(MarkAdded(html.EscapeString(b.text)))
		sb.WriteString(closeTag(b))
	}
}

func wordDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		escaped := html.EscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(escaped)
		case diffmatchpatch.DiffDelete:
			sb.WriteString(MarkRemoved(escaped))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(MarkAdded(escaped))
		}
	}
	return sb.String()
}

func hasElementChildren(b block) bool {
	return b.sel.Children().Length() > 0
}

func outer(b block) string {
	out, err := goquery.OuterHtml(b.sel)
	if err != nil {
		return html.EscapeString(b.text)
	}
	return out
}

func openTag(b block) string {
	var sb strings.Builder
	node := b.sel.Nodes[0]
	sb.WriteString("<")
	sb.WriteString(node.Data)
	for _, attr := range node.Attr {
		sb.WriteString(" ")
		if attr.Namespace != "" {
			sb.WriteString(attr.Namespace)
			sb.WriteString(":")
		}
		sb.WriteString(attr.Key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(attr.Val))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	return sb.String()
}

func closeTag(b block) string {
	if voidElements[b.name] {
		return ""
	}
	return "</" + b.sel.Nodes[0].Data + ">"
}
