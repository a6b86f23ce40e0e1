package rendering

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const printStylesheet = `
@page { size: Letter; margin: 0.5in; }
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 10.5pt; line-height: 1.35; color: #111; }
h1 { font-size: 20pt; margin: 0 0 4pt; }
h2 { font-size: 12pt; margin: 12pt 0 4pt; border-bottom: 1px solid #999; text-transform: uppercase; }
h3 { font-size: 11pt; margin: 8pt 0 2pt; }
p, li { margin: 0 0 2pt; }
ul { margin: 0 0 4pt; padding-left: 16pt; }
mark { background: none; }
`

var documentTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Style}}</style>
</head>
<body>{{.Body}}</body>
</html>`))

// Document wraps a resume's body HTML in a standalone page with the print stylesheet.
// Scripts and editor-only highlight marks are removed.
func Document(title, content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", templateErr("failed to parse resume content", err)
	}
	doc.Find("script, style, iframe").Remove()
	doc.Find("mark").Each(func(_ int, s *goquery.Selection) {
		inner, _ := s.Html()
		s.ReplaceWithHtml(inner)
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", templateErr("failed to serialize resume content", err)
	}

	var buf bytes.Buffer
	err = documentTemplate.Execute(&buf, struct {
		Title string
		Style template.CSS
		Body  template.HTML
	}{
		Title: title,
		Style: template.CSS(printStylesheet),
		Body:  template.HTML(body),
	})
	if err != nil {
		return "", templateErr("failed to execute document template", err)
	}
	return buf.String(), nil
}
