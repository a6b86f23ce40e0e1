package llm

import "github.com/google/generative-ai-go/genai"

// SchemaType is the JSON type of a schema node.
type SchemaType string

// Supported schema node types.
const (
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
	TypeArray   SchemaType = "array"
	TypeBoolean SchemaType = "boolean"
	TypeNumber  SchemaType = "number"
)

// Schema describes the shape of a structured response independent of provider.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
	Enum        []string
}

// Object builds an object schema whose required fields are listed in order.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

// String builds a string schema with a description.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if s.Items != nil {
		out.Items = s.Items.toGenai()
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	return out
}

func genaiType(t SchemaType) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeNumber:
		return genai.TypeNumber
	default:
		return genai.TypeString
	}
}
