package orchestration

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/menschrobotics/ruby-core/core/audio"
	"github.com/menschrobotics/ruby-core/core/llms"
	"github.com/menschrobotics/ruby-core/core/speechtotext"
	"github.com/menschrobotics/ruby-core/core/texttospeech"
)

type speechToTextClientStub struct {
	mu        sync.Mutex
	languages []string

	// transcribe is invoked per Transcribe call with the resolved options and
	// the 1-based call number.
	transcribe   func(call int, opts speechtotext.TranscriptionOptions)
	transcribeErr func(call int) error

	calls   atomic.Int32
	stopped atomic.Int32
}

func (s *speechToTextClientStub) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	call := int(s.calls.Add(1))

	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	s.languages = append(s.languages, options.Language)
	s.mu.Unlock()

	if s.transcribeErr != nil {
		if err := s.transcribeErr(call); err != nil {
			return err
		}
	}

	if s.transcribe != nil {
		s.transcribe(call, options)
	}
	return nil
}

func (s *speechToTextClientStub) SendAudio([]byte) error { return nil }

func (s *speechToTextClientStub) StopStream() error {
	s.stopped.Add(1)
	return nil
}

func (s *speechToTextClientStub) recordedLanguages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	languages := make([]string, len(s.languages))
	copy(languages, s.languages)
	return languages
}

type llmClientStub struct {
	mu      sync.Mutex
	prompts []llms.PromptOptions

	// respond is invoked per Prompt call with the 1-based call number and
	// the resolved options.
	respond func(call int, opts llms.PromptOptions) (*llms.Response, error)
}

func (s *llmClientStub) Prompt(_ context.Context, opts ...llms.PromptOption) (*llms.Response, error) {
	options := llms.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	s.prompts = append(s.prompts, options)
	call := len(s.prompts)
	s.mu.Unlock()

	return s.respond(call, options)
}

func (s *llmClientStub) promptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func (s *llmClientStub) prompt(call int) llms.PromptOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts[call-1]
}

type textToSpeechClientStub struct {
	audio []byte
	err   error

	mu        sync.Mutex
	texts     []string
	languages []string
}

func (s *textToSpeechClientStub) Synthesize(_ context.Context, text string, opts ...texttospeech.SynthesizeOption) ([]byte, error) {
	options := texttospeech.SynthesizeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.languages = append(s.languages, options.Language)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.audio, nil
}

// audioOutputStub drains its queue by a fixed amount per PendingBytes poll so
// playback tests can control how long speech appears to last.
type audioOutputStub struct {
	mu      sync.Mutex
	queued  int
	drain   int
	cleared bool
}

func (s *audioOutputStub) SendAudio(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued += len(audio)
	return nil
}

func (s *audioOutputStub) ClearBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = 0
	s.cleared = true
}

func (s *audioOutputStub) PendingBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.queued
	s.queued -= s.drain
	if s.queued < 0 {
		s.queued = 0
	}
	return pending
}

func (s *audioOutputStub) EncodingInfo() audio.EncodingInfo {
	return audio.DefaultPlaybackEncoding()
}

func (s *audioOutputStub) wasCleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}
