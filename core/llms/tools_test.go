package llms

import (
	"strings"
	"testing"
)

func TestNewToolReflectsParameterSchema(t *testing.T) {
	tool := NewTool("greet", "greets someone",
		func(parameters struct {
			Name    string `json:"name" jsonschema:"required"`
			Excited bool   `json:"excited,omitempty"`
		}) (string, error) {
			return "hello " + parameters.Name, nil
		},
	)

	if tool.Type != "function" {
		t.Fatalf("expected function tool type, got %q", tool.Type)
	}
	if tool.Function.Name != "greet" {
		t.Fatalf("expected tool name greet, got %q", tool.Function.Name)
	}

	schema := tool.Function.Parameters
	if schema == nil {
		t.Fatalf("expected a reflected parameter schema")
	}
	if len(schema.Required) != 1 || schema.Required[0] != "name" {
		t.Fatalf("expected name to be required, got %v", schema.Required)
	}
	if _, ok := schema.Properties.Get("name"); !ok {
		t.Fatalf("expected name property in schema")
	}
}

func TestToolExecuteParsesArguments(t *testing.T) {
	tool := NewTool("greet", "greets someone",
		func(parameters struct {
			Name string `json:"name" jsonschema:"required"`
		}) (string, error) {
			return "hello " + parameters.Name, nil
		},
	)

	result, err := tool.Execute(`{"name": "ruby"}`)
	if err != nil {
		t.Fatalf("expected execute to succeed, got %v", err)
	}
	if result != "hello ruby" {
		t.Fatalf("expected greeting, got %q", result)
	}

	if _, err := tool.Execute(`{broken`); err == nil {
		t.Fatalf("expected malformed arguments to fail")
	}
}

func TestValidateArgumentsChecksRequiredProperties(t *testing.T) {
	tool := NewTool("greet", "greets someone",
		func(parameters struct {
			Name string `json:"name" jsonschema:"required"`
		}) (string, error) {
			return "", nil
		},
	)

	if err := tool.ValidateArguments(`{"name": "ruby"}`); err != nil {
		t.Fatalf("expected valid arguments to pass, got %v", err)
	}

	err := tool.ValidateArguments(`{}`)
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected missing required argument error, got %v", err)
	}

	if err := tool.ValidateArguments(`[1, 2]`); err == nil {
		t.Fatalf("expected non-object arguments to fail")
	}
}
