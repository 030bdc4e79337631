package tools

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/menschrobotics/ruby-core/core/llms"
)

// NewCalculatorTool evaluates arithmetic expressions. Runtime failures such
// as division by zero surface as handler errors, not panics.
func NewCalculatorTool() Spec {
	return Spec{
		Tool: llms.NewTool(
			"calculator",
			"Evaluate an arithmetic expression and return the numeric result. Use this for any calculation instead of doing the math yourself.",
			func(parameters struct {
				Expression string `json:"expression" jsonschema:"required,description=Arithmetic expression to evaluate, e.g. '12 * 7'"`
			}) (string, error) {
				program, err := expr.Compile(parameters.Expression)
				if err != nil {
					return "", fmt.Errorf("could not parse expression %q: %w", parameters.Expression, err)
				}

				result, err := expr.Run(program, nil)
				if err != nil {
					return "", fmt.Errorf("could not evaluate expression %q: %w", parameters.Expression, err)
				}

				return fmt.Sprintf("%v", result), nil
			},
		),
	}
}
