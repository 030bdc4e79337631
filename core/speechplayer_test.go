package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/menschrobotics/ruby-core/core/events"
)

const testPollInterval = 10 * time.Millisecond

func TestSpeechPlayerDrainsToCompletion(t *testing.T) {
	output := &audioOutputStub{drain: 1000}
	interrupt := &interruptSignal{}
	player := newSpeechPlayer(output, interrupt, testPollInterval)

	ended := false
	player.setEventEmitter(func(event events.Event) {
		if _, ok := event.(events.AssistantPlaybackEnded); ok {
			ended = true
		}
	})

	interrupted, err := player.Play(context.Background(), make([]byte, 2500), "hello")
	if err != nil {
		t.Fatalf("expected playback to succeed, got %v", err)
	}
	if interrupted {
		t.Fatalf("expected playback to run to completion")
	}
	if !ended {
		t.Fatalf("expected playback-ended event")
	}
}

func TestSpeechPlayerHonorsRaiseBeforeFirstTick(t *testing.T) {
	output := &audioOutputStub{}
	interrupt := &interruptSignal{}
	player := newSpeechPlayer(output, interrupt, testPollInterval)

	interrupt.raise()
	interrupted, err := player.Play(context.Background(), make([]byte, 48000), "hello")
	if err != nil {
		t.Fatalf("expected interrupted playback without error, got %v", err)
	}
	if !interrupted {
		t.Fatalf("expected an already raised interrupt to stop playback at the first tick")
	}
	if !output.wasCleared() {
		t.Fatalf("expected queued audio to be dropped")
	}
}

func TestSpeechPlayerInterruptDropsBuffer(t *testing.T) {
	output := &audioOutputStub{}
	interrupt := &interruptSignal{}
	player := newSpeechPlayer(output, interrupt, testPollInterval)

	var observed []events.Kind
	player.setEventEmitter(func(event events.Event) {
		observed = append(observed, event.Kind())
	})

	go func() {
		time.Sleep(testPollInterval / 2)
		interrupt.raise()
	}()

	interrupted, err := player.Play(context.Background(), make([]byte, 48000), "hello")
	if err != nil {
		t.Fatalf("expected interrupted playback without error, got %v", err)
	}
	if !interrupted {
		t.Fatalf("expected playback to report interruption")
	}
	if !output.wasCleared() {
		t.Fatalf("expected queued audio to be dropped")
	}
	if len(observed) != 1 || observed[0] != events.KindAssistantPlaybackInterrupted {
		t.Fatalf("expected a single playback-interrupted event, got %v", observed)
	}
}

func TestSpeechPlayerWithoutOutputEndsImmediately(t *testing.T) {
	player := newSpeechPlayer(nil, &interruptSignal{}, testPollInterval)

	ended := false
	player.setEventEmitter(func(event events.Event) {
		if _, ok := event.(events.AssistantPlaybackEnded); ok {
			ended = true
		}
	})

	interrupted, err := player.Play(context.Background(), make([]byte, 100), "hello")
	if err != nil || interrupted {
		t.Fatalf("expected silent completion, got interrupted=%v err=%v", interrupted, err)
	}
	if !ended {
		t.Fatalf("expected playback-ended event even without an output device")
	}
}
