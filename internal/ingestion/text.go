package ingestion

import (
	"html"
	"regexp"
	"strings"
)

var (
	multiSpace    = regexp.MustCompile(`[ \t\x{00a0}]+`)
	excessBlank   = regexp.MustCompile(`\n\n\n+`)
	bulletPrefix  = regexp.MustCompile(`^([-*•·▪●◦]|\d+[.)])\s+`)
	emailOrLinkRe = regexp.MustCompile(`@|https?://|linkedin\.com|github\.com`)
)

// CleanText normalizes line endings and whitespace while preserving line structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpace.ReplaceAllString(line, " "))
	}

	result := excessBlank.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// isBulletLine checks if a line is a list item
func isBulletLine(line string) bool {
	return bulletPrefix.MatchString(line)
}

// isHeadingLine treats short all-caps lines and markdown headings as section titles.
func isHeadingLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	if len([]rune(line)) > 40 || emailOrLinkRe.MatchString(line) {
		return false
	}
	letters := strings.IndexFunc(line, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
	return letters && line == strings.ToUpper(line)
}

// TextToHTML converts cleaned resume text into editor HTML. The first line becomes the
// h1 name, section titles become h2, runs of bullets become ul lists and other
// blank-line separated blocks become paragraphs. All text is escaped.
func TextToHTML(text string) string {
	text = CleanText(text)
	if text == "" {
		return ""
	}

	var (
		b         strings.Builder
		paragraph []string
		inList    bool
		first     = true
	)
	flushParagraph := func() {
		if len(paragraph) > 0 {
			b.WriteString("<p>" + strings.Join(paragraph, "<br>") + "</p>")
			paragraph = nil
		}
	}
	closeList := func() {
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case line == "":
			flushParagraph()
			closeList()
		case first:
			b.WriteString("<h1>" + html.EscapeString(strings.TrimLeft(line, "# ")) + "</h1>")
		case isBulletLine(line):
			flushParagraph()
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li><p>" + html.EscapeString(bulletPrefix.ReplaceAllString(line, "")) + "</p></li>")
		case isHeadingLine(line):
			flushParagraph()
			closeList()
			b.WriteString("<h2>" + html.EscapeString(strings.TrimLeft(line, "# ")) + "</h2>")
		default:
			closeList()
			paragraph = append(paragraph, html.EscapeString(line))
		}
		first = false
	}
	flushParagraph()
	closeList()
	return b.String()
}
