package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/menschrobotics/ruby-core/core/audio"
	"github.com/menschrobotics/ruby-core/core/events"
	"github.com/menschrobotics/ruby-core/core/speechtotext"
)

// speechToText wraps the configured recognition client so the turn loop can
// treat a missing client as a no-op.
type speechToText struct {
	client SpeechToText

	emitEvent eventEmitter
}

func newSpeechToText(client SpeechToText) *speechToText {
	return &speechToText{
		client:    client,
		emitEvent: noopEventEmitter,
	}
}

func (s *speechToText) set(client SpeechToText) {
	if s != nil {
		s.client = client
	}
}

func (s *speechToText) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechToText) setEventEmitter(emitEvent eventEmitter) {
	if s == nil {
		return
	}
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	s.emitEvent = emitEvent
}

type listenRequest struct {
	language     string
	phrases      []string
	boost        float32
	encodingInfo audio.EncodingInfo
	timeout      time.Duration
	retries      int
}

// Listen blocks until a final transcript arrives, the window times out, or
// ctx is cancelled. Recognition failures are retried a bounded number of
// times; a timeout is not retried.
func (s *speechToText) Listen(ctx context.Context, request listenRequest) (string, error) {
	// Without a recognizer there is nothing to listen with; block until the
	// loop is stopped rather than spinning through empty turns.
	if !s.isConfigured() {
		<-ctx.Done()
		return "", ctx.Err()
	}

	var lastErr error
	for attempt := 0; attempt <= request.retries; attempt++ {
		transcript, err := s.listenOnce(ctx, request)
		if err == nil {
			return transcript, nil
		}
		if transcriptionErr, ok := err.(*TranscriptionError); ok {
			lastErr = transcriptionErr
			logger.WarnContext(ctx, "transcription attempt failed",
				"attempt", attempt+1, "error", transcriptionErr)
			continue
		}
		return "", err
	}

	return "", lastErr
}

func (s *speechToText) listenOnce(ctx context.Context, request listenRequest) (string, error) {
	transcripts := make(chan string, 1)

	opts := []speechtotext.TranscriptionOption{
		speechtotext.WithLanguage(request.language),
		speechtotext.WithEncodingInfo(request.encodingInfo),
		speechtotext.WithInterimTranscriptionCallback(func(transcript string) {
			s.emitEvent(events.NewUserTranscriptInterim(transcript))
		}),
		speechtotext.WithTranscriptionCallback(func(transcript string) {
			select {
			case transcripts <- transcript:
			default:
			}
		}),
	}
	if len(request.phrases) > 0 {
		opts = append(opts, speechtotext.WithPhrases(request.phrases, request.boost))
	}

	if err := s.client.Transcribe(ctx, opts...); err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("failed to start transcribing: %w", err)}
	}
	defer func() {
		if err := s.client.StopStream(); err != nil {
			logger.WarnContext(ctx, "failed to stop transcription stream", "error", err)
		}
	}()

	select {
	case transcript := <-transcripts:
		s.emitEvent(events.NewUserTranscriptInterim(""))
		s.emitEvent(events.NewUserTranscriptFinal(transcript))
		return transcript, nil
	case <-time.After(request.timeout):
		return "", ErrListenTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *speechToText) SendAudio(audio []byte) error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.SendAudio(audio)
}

func (s *speechToText) Close(ctx context.Context) error {
	if !s.isConfigured() {
		return nil
	}

	switch c := s.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}
