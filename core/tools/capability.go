package tools

// Capability is the mutation handle passed to stateful tools. It exposes the
// narrow slice of orchestrator state a tool is allowed to touch; stateless
// tools never see one.
type Capability interface {
	// SupportedLanguages lists the locale codes the speech stack can serve.
	SupportedLanguages() []string
	// ActiveLanguage returns the locale currently in effect.
	ActiveLanguage() string
	// SwitchLanguage schedules a locale change. It takes effect from the
	// next turn so a turn never straddles two languages.
	SwitchLanguage(locale string) error
}
