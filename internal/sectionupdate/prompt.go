package sectionupdate

import (
	"strings"

	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/prompts"
	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/jonathan/resume-editor/internal/types"
)

// systemPrompt joins the role, the section rules and the output contract.
func systemPrompt(section Config) (string, error) {
	keys := []string{"role", section.RulesPromptKey, "output-contract"}
	if section.WithDiff {
		keys = append(keys, "diff-rules")
	}

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		p, err := prompts.Get(prompts.SectionsFile, key)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "\n\n"), nil
}

// taskPrompt presents the change description, the user instruction and the fragment, in that order.
func taskPrompt(req types.EditRequest) (string, error) {
	template, err := prompts.Get(prompts.SectionsFile, "task")
	if err != nil {
		return "", err
	}
	return prompts.Format(template, map[string]string{
		"ChangeDescription": req.ChangeDescription,
		"UserInstruction":   req.UserInstruction,
		"HTMLFragment":      req.HTMLFragment,
	}), nil
}

// responseSchema is the schema the backend is asked to honor.
func responseSchema(section Config) *llm.Schema {
	props := map[string]*llm.Schema{
		"oldFragment": llm.String("The section HTML exactly as received"),
		"newFragment": llm.String("The complete updated section HTML"),
	}
	required := []string{"oldFragment", "newFragment"}
	if section.WithDiff {
		props["diffFragment"] = llm.String("The complete updated section with removed and added text highlighted")
		required = append(required, "diffFragment")
	}
	return llm.Object(props, required...)
}

// decodeSchema is the schema the response is checked against before unmarshalling.
func decodeSchema(section Config) string {
	if section.WithDiff {
		return schemas.SectionOutputWithDiff
	}
	return schemas.SectionOutput
}
