package llm

import "strings"

// CleanJSONBlock removes a markdown code fence around a model reply and trims it.
// Anything else is returned as-is so that prose around the JSON still fails validation.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	rest, ok := strings.CutPrefix(text, "```")
	if !ok {
		return text
	}
	// A short first line with no JSON in it is a language tag.
	if tag, body, found := strings.Cut(rest, "\n"); found && len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
		rest = body
	}
	if end := strings.LastIndex(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
