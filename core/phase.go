package orchestration

import "sync/atomic"

// Phase is the orchestrator's externally observable state. Transitions follow
// the turn cycle Idle -> Listening -> Thinking -> Speaking -> Idle; an
// interrupt can cut Speaking short but never skips back into an earlier phase
// of the same turn.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseThinking
	PhaseSpeaking
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseThinking:
		return "thinking"
	case PhaseSpeaking:
		return "speaking"
	}
	return "unknown"
}

// phaseCell holds the current phase for lock-free reads from UI threads.
type phaseCell struct {
	value atomic.Int32
}

func (c *phaseCell) load() Phase {
	return Phase(c.value.Load())
}

// swap stores the new phase and reports whether it actually changed, so the
// caller can skip redundant change notifications.
func (c *phaseCell) swap(phase Phase) bool {
	return c.value.Swap(int32(phase)) != int32(phase)
}
