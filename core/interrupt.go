package orchestration

import "sync/atomic"

// interruptSignal is a single-slot latch between the presentation layer and
// the turn loop. Raising an already raised signal is a no-op, and a consume
// observes each raise at most once.
type interruptSignal struct {
	raised atomic.Bool
}

// raise sets the signal and reports whether this call was the one that set it.
func (s *interruptSignal) raise() bool {
	return s.raised.CompareAndSwap(false, true)
}

// consume clears the signal and reports whether it was set.
func (s *interruptSignal) consume() bool {
	return s.raised.CompareAndSwap(true, false)
}

// pending reports whether the signal is set without clearing it.
func (s *interruptSignal) pending() bool {
	return s.raised.Load()
}
