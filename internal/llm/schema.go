package llm

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
	descriptionKey          = "description"
)

// GenerateSchema reflects T into a JSON schema that OpenAI strict mode
// accepts: every object closed, every property required.
func GenerateSchema[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	delete(m, "$schema")
	delete(m, "$id")

	ensureOpenAICompliance(m)
	return m, nil
}

// NewOutputSchema builds an OutputSchema for T.
func NewOutputSchema[T any](name, description string) (*OutputSchema, error) {
	schema, err := GenerateSchema[T]()
	if err != nil {
		return nil, err
	}
	return &OutputSchema{Name: name, Description: description, Schema: schema}, nil
}

func ensureOpenAICompliance(schema map[string]any) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]any); ok {
			required := make([]string, 0, len(properties))
			for propName := range properties {
				required = append(required, propName)
			}
			sort.Strings(required)
			if len(required) > 0 {
				schema[requiredKey] = required
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]any); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]any); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]any); ok {
		ensureOpenAICompliance(items)
	}
}

// GeminiSchema converts a JSON schema map into Gemini's schema type. Only
// the subset produced by GenerateSchema is handled: objects, arrays and
// scalar types with descriptions.
func GeminiSchema(schema map[string]any) *genai.Schema {
	out := &genai.Schema{}

	switch schema[typeKey] {
	case "object":
		out.Type = genai.TypeObject
	case "array":
		out.Type = genai.TypeArray
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}

	if desc, ok := schema[descriptionKey].(string); ok {
		out.Description = desc
	}

	if properties, ok := schema[propertiesKey].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(properties))
		for name, prop := range properties {
			if propMap, ok := prop.(map[string]any); ok {
				out.Properties[name] = GeminiSchema(propMap)
			}
		}
	}

	switch required := schema[requiredKey].(type) {
	case []string:
		out.Required = required
	case []any:
		for _, r := range required {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]any); ok {
		out.Items = GeminiSchema(items)
	}
	return out
}
