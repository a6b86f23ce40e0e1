// Package schemas holds the embedded JSON Schemas for model output and tool
// arguments, and validates documents against them.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed files/*.schema.json
var schemaFiles embed.FS

// Embedded schema names.
const (
	SectionOutput         = "section_output.schema.json"
	SectionOutputWithDiff = "section_output_diff.schema.json"
	EditRequest           = "edit_request.schema.json"
)

// FieldError is one schema violation. Field is "(root)" for the top level.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// Summary is the violations on a single line.
func (ve *ValidationError) Summary() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// LoadError means a schema is missing or does not compile.
type LoadError struct {
	Name  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Get returns the raw text of an embedded schema.
func Get(name string) (string, error) {
	data, err := schemaFiles.ReadFile("files/" + name)
	if err != nil {
		return "", &LoadError{Name: name, Cause: err}
	}
	return string(data), nil
}

// Validate checks doc against the named schema. A doc that is not JSON at all
// fails with a plain error; violations come back as *ValidationError.
func Validate(name, doc string) error {
	schema, err := compile(name)
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

var compiled sync.Map // name -> *gojsonschema.Schema

func compile(name string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}
	text, err := Get(name)
	if err != nil {
		return nil, err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, &LoadError{Name: name, Cause: err}
	}
	s, _ := compiled.LoadOrStore(name, schema)
	return s.(*gojsonschema.Schema), nil
}
