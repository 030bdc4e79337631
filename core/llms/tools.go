package llms

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Tool describes a callable capability exposed to the model. The wire shape
// mirrors the OpenAI function-calling format so adapters can serialize it
// directly.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`

	execute func(arguments string) (string, error)
}

type ToolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// NewTool builds a Tool whose parameter schema is reflected from the handler's
// typed parameter struct. Arguments are unmarshalled into that struct before
// the handler runs.
func NewTool[T any](name string, description string, handler func(parameters T) (string, error)) Tool {
	reflector := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	var parameters T
	schema := reflector.Reflect(&parameters)
	schema.Version = ""

	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		execute: func(arguments string) (string, error) {
			var parameters T
			if arguments != "" {
				if err := json.Unmarshal([]byte(arguments), &parameters); err != nil {
					return "", fmt.Errorf("failed to parse tool arguments: %w", err)
				}
			}
			return handler(parameters)
		},
	}
}

// Execute runs the tool handler against raw JSON arguments.
func (t Tool) Execute(arguments string) (string, error) {
	if t.execute == nil {
		return "", fmt.Errorf("tool %q has no handler", t.Function.Name)
	}
	return t.execute(arguments)
}

// ValidateArguments checks raw JSON arguments against the tool's parameter
// schema: the payload must be a JSON object and every required property must
// be present.
func (t Tool) ValidateArguments(arguments string) error {
	schema := t.Function.Parameters
	if schema == nil {
		return nil
	}

	payload := map[string]json.RawMessage{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &payload); err != nil {
			return fmt.Errorf("arguments are not a JSON object: %w", err)
		}
	}

	for _, required := range schema.Required {
		if _, ok := payload[required]; !ok {
			return fmt.Errorf("missing required argument %q", required)
		}
	}

	return nil
}
