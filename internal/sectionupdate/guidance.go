package sectionupdate

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jonathan/resume-editor/internal/prompts"
	"github.com/jonathan/resume-editor/internal/types"
)

// maxHintLength bounds the closest-block excerpt quoted in retry guidance.
const maxHintLength = 160

func staleGuidance(kind types.SectionKind, fragment, snapshot string) string {
	closest := ""
	if block := closestBlock(fragment, snapshot); block != "" {
		closest = prompts.Format(prompts.MustGet(prompts.SectionsFile, "retry-closest"), map[string]string{
			"Block": truncate(block, maxHintLength),
		})
	}
	return prompts.Format(prompts.MustGet(prompts.SectionsFile, "retry-stale"), map[string]string{
		"Kind":    string(kind),
		"Closest": closest,
	})
}

func generationGuidance() string {
	return prompts.MustGet(prompts.SectionsFile, "retry-generation")
}

func snapshotGuidance() string {
	return prompts.MustGet(prompts.SectionsFile, "retry-snapshot")
}

// closestBlock returns the top-level snapshot block whose text is nearest to the fragment's text.
func closestBlock(fragment, snapshot string) string {
	target := textOf(fragment)
	if target == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return ""
	}

	best, bestDistance := "", -1
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		d := fuzzy.LevenshteinDistance(strings.ToLower(target), strings.ToLower(text))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = text, d
		}
	})
	return best
}

func textOf(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
