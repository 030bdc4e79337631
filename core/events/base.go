package events

import "time"

// Kind names an event type, namespaced by the turn phase it belongs to, for
// example "tool_call.started".
type Kind string

// Event is anything the orchestrator emits towards the presentation layer.
// Concrete events embed Base and add their payload fields.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and emission time common to every event.
type Base struct {
	kind      Kind
	emittedAt time.Time
}

// NewBase stamps an event with its kind and the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, emittedAt: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.emittedAt
}
