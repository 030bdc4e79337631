package events

// KindPhaseChanged identifies orchestrator phase transitions.
const KindPhaseChanged Kind = "phase.changed"

// PhaseChanged reports that the orchestrator moved to a new phase.
type PhaseChanged struct {
	Base
	Phase string
}

// NewPhaseChanged creates a phase changed event.
func NewPhaseChanged(phase string) PhaseChanged {
	return PhaseChanged{Base: NewBase(KindPhaseChanged), Phase: phase}
}
