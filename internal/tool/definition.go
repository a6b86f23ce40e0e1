// Package tool exposes section update agents under the tool calling convention used by
// orchestrating agent loops: a named operation, a parameter schema and a string result.
package tool

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/jonathan/resume-editor/internal/sectionupdate"
)

// Definition declares a callable tool.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// Call is one tool invocation requested by an agent loop.
type Call struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Result is the string-encoded outcome of a call.
type Result struct {
	CallID  string `json:"call_id,omitempty"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// DefinitionFor builds the tool definition for a section.
func DefinitionFor(section sectionupdate.Config) (Definition, error) {
	schema, err := inputSchema()
	if err != nil {
		return Definition{}, err
	}
	return Definition{
		Name:        section.ToolName(),
		Description: description(section),
		InputSchema: schema,
	}, nil
}

func description(section sectionupdate.Config) string {
	d := fmt.Sprintf("Rewrite the %s section of a resume from a natural-language instruction. "+
		"Returns the updated HTML fragment", section.Kind)
	if section.WithDiff {
		d += " with an inline diff"
	}
	return d + ". On failure the original fragment is returned with retry guidance."
}

func inputSchema() (map[string]any, error) {
	content, err := schemas.Get(schemas.EditRequest)
	if err != nil {
		return nil, err
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(content), &schema); err != nil {
		return nil, fmt.Errorf("failed to parse tool input schema: %w", err)
	}
	delete(schema, "$schema")
	delete(schema, "title")
	return schema, nil
}
