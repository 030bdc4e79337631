package orchestration

import (
	"github.com/menschrobotics/ruby-core/core/tools"
)

// LanguageTools builds the stateful language tools bound to this
// orchestrator. They are the only tools allowed to mutate conversation state,
// and they get to it through the capability handle only.
func (o *Orchestrator) LanguageTools() []tools.Spec {
	return []tools.Spec{
		tools.NewSwitchLanguageTool(o),
		tools.NewGetAvailableLanguagesTool(o),
	}
}

// SupportedLanguages implements tools.Capability.
func (o *Orchestrator) SupportedLanguages() []string {
	return o.language.Supported()
}

// ActiveLanguage implements tools.Capability.
func (o *Orchestrator) ActiveLanguage() string {
	return o.language.Active()
}

// SwitchLanguage implements tools.Capability. The switch lands at the start
// of the next turn; recognition and synthesis change together.
func (o *Orchestrator) SwitchLanguage(locale string) error {
	return o.language.Switch(locale)
}
