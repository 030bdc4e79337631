package orchestration

import (
	"context"
	"time"

	"github.com/menschrobotics/ruby-core/core/events"
)

// speechPlayer pushes synthesized audio to the output device and babysits it
// until the buffer drains or the user interrupts. pollInterval bounds the
// stop latency; the default matches one playback device period.
type speechPlayer struct {
	output       AudioOutput
	interrupt    *interruptSignal
	pollInterval time.Duration
	emitEvent    eventEmitter
}

func newSpeechPlayer(output AudioOutput, interrupt *interruptSignal, pollInterval time.Duration) *speechPlayer {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &speechPlayer{
		output:       output,
		interrupt:    interrupt,
		pollInterval: pollInterval,
		emitEvent:    noopEventEmitter,
	}
}

func (p *speechPlayer) setEventEmitter(emitEvent eventEmitter) {
	if p == nil {
		return
	}
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	p.emitEvent = emitEvent
}

func (p *speechPlayer) isConfigured() bool {
	return p != nil && p.output != nil
}

// Play queues the audio and blocks until it finishes or is interrupted. The
// return reports whether playback was cut short. An interrupt always stops
// audio immediately; the queued buffer is dropped, never drained.
func (p *speechPlayer) Play(ctx context.Context, audio []byte, transcript string) (interrupted bool, err error) {
	if !p.isConfigured() || len(audio) == 0 {
		p.emitEvent(events.NewAssistantPlaybackEnded(transcript))
		return false, nil
	}

	if err := p.output.SendAudio(audio); err != nil {
		return false, err
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.output.ClearBuffer()
			p.emitEvent(events.NewAssistantPlaybackInterrupted())
			return true, ctx.Err()
		case <-ticker.C:
			if p.interrupt.consume() {
				p.output.ClearBuffer()
				p.emitEvent(events.NewAssistantPlaybackInterrupted())
				return true, nil
			}
			if p.output.PendingBytes() == 0 {
				p.emitEvent(events.NewAssistantPlaybackEnded(transcript))
				return false, nil
			}
		}
	}
}
