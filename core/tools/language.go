package tools

import (
	"fmt"
	"strings"

	"github.com/menschrobotics/ruby-core/core/llms"
)

// NewSwitchLanguageTool changes the conversation language through the
// capability handle. The change lands on the next turn.
func NewSwitchLanguageTool(capability Capability) Spec {
	return Spec{
		Stateful: true,
		Tool: llms.NewTool(
			"switch_language",
			"Switch the conversation to another language. Call get_available_languages first if you are unsure which locales are supported.",
			func(parameters struct {
				Locale string `json:"locale" jsonschema:"required,description=Locale code to switch to, e.g. 'ml-IN'"`
			}) (string, error) {
				if err := capability.SwitchLanguage(parameters.Locale); err != nil {
					return "", err
				}
				return fmt.Sprintf("switching to %s from the next turn", parameters.Locale), nil
			},
		),
	}
}

// NewGetAvailableLanguagesTool reports the supported locales and which one is
// active.
func NewGetAvailableLanguagesTool(capability Capability) Spec {
	return Spec{
		Stateful: true,
		Tool: llms.NewTool(
			"get_available_languages",
			"List the languages this conversation can switch to, and which one is currently active.",
			func(parameters struct{}) (string, error) {
				return fmt.Sprintf(
					"available: %s; active: %s",
					strings.Join(capability.SupportedLanguages(), ", "),
					capability.ActiveLanguage(),
				), nil
			},
		),
	}
}
