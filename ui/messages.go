package ui

import (
	orchestration "github.com/menschrobotics/ruby-core/core"
	"github.com/menschrobotics/ruby-core/core/events"
)

// phaseMsg carries an orchestrator phase change into the update loop.
type phaseMsg struct {
	Phase orchestration.Phase
}

// eventMsg carries any other orchestrator event into the update loop.
type eventMsg struct {
	Event events.Event
}

// pulseMsg drives the breathing animation of the status circle.
type pulseMsg struct{}
