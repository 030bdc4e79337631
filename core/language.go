package orchestration

import (
	"fmt"
	"sync"
)

// languageState tracks the active speech locale. Recognition and synthesis
// always read the same value, and switches are deferred to the start of the
// next turn so a single turn never straddles two languages.
type languageState struct {
	mu        sync.Mutex
	active    string
	pending   string
	supported []string
}

func newLanguageState(supported []string, active string) *languageState {
	return &languageState{active: active, supported: supported}
}

func (l *languageState) Active() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

func (l *languageState) Supported() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	supported := make([]string, len(l.supported))
	copy(supported, l.supported)
	return supported
}

// Switch schedules a locale change for the next turn.
func (l *languageState) Switch(locale string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, candidate := range l.supported {
		if candidate == locale {
			l.pending = locale
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
}

// advance applies a pending switch, if any, and reports the locale that the
// coming turn should use along with whether it changed.
func (l *languageState) advance() (locale string, changed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending != "" && l.pending != l.active {
		l.active = l.pending
		l.pending = ""
		return l.active, true
	}

	l.pending = ""
	return l.active, false
}
