package events

// KindLanguageSwitched identifies locale changes.
const KindLanguageSwitched Kind = "language.switched"

// LanguageSwitched reports that the active speech locale changed. The new
// locale applies to both recognition and synthesis from the next turn on.
type LanguageSwitched struct {
	Base
	Locale string
}

func NewLanguageSwitched(locale string) LanguageSwitched {
	return LanguageSwitched{Base: NewBase(KindLanguageSwitched), Locale: locale}
}
