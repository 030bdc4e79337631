package orchestration

import (
	"context"
	"time"

	"github.com/menschrobotics/ruby-core/core/audio"
	"github.com/menschrobotics/ruby-core/core/events"
	"github.com/menschrobotics/ruby-core/core/llms"
	"github.com/menschrobotics/ruby-core/core/speechtotext"
	"github.com/menschrobotics/ruby-core/core/texttospeech"
	"github.com/menschrobotics/ruby-core/core/tools"
)

type OrchestratorOption func(*Orchestrator)

type LLM interface {
	Prompt(ctx context.Context, opts ...llms.PromptOption) (*llms.Response, error)
}

func WithLLM(client LLM) OrchestratorOption {
	return func(o *Orchestrator) {
		o.llm.set(client)
	}
}

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechToText.set(client)
	}
}

type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesizeOption) ([]byte, error)
}

func WithTextToSpeechClient(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) {
		o.textToSpeech.set(client)
	}
}

type AudioInput interface {
	Stream(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	CaptureEncodingInfo() audio.EncodingInfo
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) {
		o.audioInput = client
	}
}

type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	PendingBytes() int
	EncodingInfo() audio.EncodingInfo
}

func WithAudioOutput(client AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) {
		o.audioOutput = client
	}
}

// WithToolRegistry wires the registry whose tools the model may call during
// the thinking phase.
func WithToolRegistry(registry *tools.Registry) OrchestratorOption {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithInstructions replaces the default persona prompt.
func WithInstructions(instructions string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.instructions = instructions
	}
}

// WithPersona is an alias for WithInstructions; the prompt is the persona.
func WithPersona(persona string) OrchestratorOption {
	return WithInstructions(persona)
}

// WithFallbackReplies overrides the phrases spoken when a turn fails. Empty
// fields keep the stock phrasing.
func WithFallbackReplies(replies FallbackReplies) OrchestratorOption {
	return func(o *Orchestrator) {
		o.replies = o.replies.merge(replies)
	}
}

// WithLanguages sets the locales the speech stack can serve and the one to
// start in. The active locale must be in the supported set.
func WithLanguages(supported []string, active string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.language = newLanguageState(supported, active)
	}
}

// WithBoostPhrases biases recognition towards phrases that are likely in
// this deployment, such as product or tool names.
func WithBoostPhrases(phrases []string, boost float32) OrchestratorOption {
	return func(o *Orchestrator) {
		o.boostPhrases = phrases
		o.boost = boost
	}
}

// WithListenTimeout bounds how long a turn waits for a final transcript.
func WithListenTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.listenTimeout = timeout
	}
}

// WithToolCallBudget caps how many rounds of tool calls a single turn may
// spend before the model is forced to answer in plain text.
func WithToolCallBudget(budget int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.toolCallBudget = budget
	}
}

// WithTranscriptionRetries sets how many times a failed recognition attempt
// is retried before the turn falls back to a spoken apology.
func WithTranscriptionRetries(retries int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.transcriptionRetries = retries
	}
}

// WithInterruptPollInterval sets how often playback checks for an interrupt
// or for the output buffer draining.
func WithInterruptPollInterval(interval time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.pollInterval = interval
	}
}

// OrchestrateOptions carry the per-run callbacks into the turn loop.
type OrchestrateOptions struct {
	onEvent        func(events.Event)
	onPhaseChanged func(Phase)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithEventCallback receives every event the turn loop emits. The callback
// runs on the turn loop goroutine and must not block.
func WithEventCallback(callback func(events.Event)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onEvent = callback
	}
}

// WithPhaseCallback is a convenience for callers that only track phases.
func WithPhaseCallback(callback func(Phase)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onPhaseChanged = callback
	}
}
