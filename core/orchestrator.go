// Package orchestration runs the voice conversation loop: listening for an
// utterance, thinking through the inference engine and its tools, and
// speaking the reply, with user interrupts honored during playback.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/menschrobotics/ruby-core/core/audio"
	"github.com/menschrobotics/ruby-core/core/events"
	"github.com/menschrobotics/ruby-core/core/llms"
	"github.com/menschrobotics/ruby-core/core/tools"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultListenTimeout        = 30 * time.Second
	defaultToolCallBudget       = 3
	defaultTranscriptionRetries = 2
	defaultPollInterval         = 100 * time.Millisecond
)

// DefaultLocales are the locales the stock speech stack is provisioned for.
var DefaultLocales = []string{"en-IN", "ml-IN", "ta-IN"}

// DefaultLocale is the locale conversations start in.
const DefaultLocale = "en-IN"

type Orchestrator struct {
	conversation conversation
	language     *languageState
	interrupt    interruptSignal
	phase        phaseCell

	llm          *llm
	speechToText *speechToText
	textToSpeech *textToSpeech
	player       *speechPlayer

	audioInput  AudioInput
	audioOutput AudioOutput
	registry    *tools.Registry

	instructions         string
	listenTimeout        time.Duration
	toolCallBudget       int
	transcriptionRetries int
	pollInterval         time.Duration
	replies              FallbackReplies
	boostPhrases         []string
	boost                float32

	orchestrateOptions OrchestrateOptions
	emitEvent          eventEmitter

	// listening gates captured audio so frames outside the listening window
	// never reach the recognizer.
	listening atomic.Bool

	started   atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
	stop      context.CancelFunc
	done      chan struct{}
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		language:             newLanguageState(DefaultLocales, DefaultLocale),
		llm:                  newLLM(nil),
		speechToText:         newSpeechToText(nil),
		textToSpeech:         newTextToSpeech(nil),
		instructions:         defaultInstructions,
		listenTimeout:        defaultListenTimeout,
		toolCallBudget:       defaultToolCallBudget,
		transcriptionRetries: defaultTranscriptionRetries,
		pollInterval:         defaultPollInterval,
		replies:              defaultFallbackReplies(),
		emitEvent:            noopEventEmitter,
		done:                 make(chan struct{}),
	}

	for _, opt := range opts {
		opt(o)
	}

	o.player = newSpeechPlayer(o.audioOutput, &o.interrupt, o.pollInterval)

	return o
}

// Start launches the turn loop on its own goroutine and returns. ctx is the
// base context for every turn; cancelling it stops the loop. Start may be
// called at most once per orchestrator.
func (o *Orchestrator) Start(ctx context.Context, opts ...OrchestrateOption) error {
	if o.closed.Load() {
		return ErrOrchestratorClosed
	}
	if !o.started.CompareAndSwap(false, true) {
		return errors.New("orchestrator already started")
	}

	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.emitEvent = newCallbackEventEmitter(o.orchestrateOptions)
	o.speechToText.setEventEmitter(o.emitEvent)
	o.llm.setEventEmitter(o.emitEvent)
	o.player.setEventEmitter(o.emitEvent)

	ctx, cancel := context.WithCancel(ctx)
	o.stop = cancel

	if o.audioInput != nil {
		if err := o.audioInput.Stream(ctx, func(frame []byte) {
			if o.listening.Load() {
				if err := o.speechToText.SendAudio(frame); err != nil {
					logger.WarnContext(ctx, "failed to forward audio frame", "error", err)
				}
			}
		}); err != nil {
			cancel()
			return fmt.Errorf("failed to start audio capture: %w", err)
		}
	}

	go o.run(ctx)
	return nil
}

func (o *Orchestrator) run(ctx context.Context) {
	defer close(o.done)
	o.setPhase(PhaseIdle)

	for ctx.Err() == nil {
		o.runTurn(ctx)
	}
}

// runTurn drives one full turn of the conversation. Every exit path lands
// back in Idle.
func (o *Orchestrator) runTurn(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "conversation turn")
	defer span.End()
	defer o.setPhase(PhaseIdle)

	locale, changed := o.language.advance()
	if changed {
		o.emitEvent(events.NewLanguageSwitched(locale))
	}
	span.SetAttributes(attribute.String("conversation.locale", locale))

	transcript, err := o.listen(ctx, locale)
	if err != nil {
		// A timeout just means nobody spoke; the next turn listens again. A
		// recognition failure that survived its retries has to surface to the
		// user as speech, never as silence.
		var transcriptionErr *TranscriptionError
		if errors.As(err, &transcriptionErr) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "listening failed, speaking fallback", "error", err)
			o.emitEvent(events.NewAssistantResponseFinal(o.replies.Listening))
			o.speak(ctx, span, o.replies.Listening, locale)
		}
		return
	}

	if !o.conversation.appendUser(transcript) {
		return
	}

	o.setPhase(PhaseThinking)
	reply := o.respond(ctx, span)
	if reply == "" {
		return
	}

	o.speak(ctx, span, reply, locale)
}

func (o *Orchestrator) listen(ctx context.Context, locale string) (string, error) {
	o.setPhase(PhaseListening)

	encodingInfo := audio.DefaultCaptureEncoding()
	if o.audioInput != nil {
		encodingInfo = o.audioInput.CaptureEncodingInfo()
	}

	o.listening.Store(true)
	transcript, err := o.speechToText.Listen(ctx, listenRequest{
		language:     locale,
		phrases:      o.boostPhrases,
		boost:        o.boost,
		encodingInfo: encodingInfo,
		timeout:      o.listenTimeout,
		retries:      o.transcriptionRetries,
	})
	o.listening.Store(false)

	return transcript, err
}

// respond runs inference and returns the reply to speak. Inference failures
// never propagate; the user hears a fixed apology instead.
func (o *Orchestrator) respond(ctx context.Context, span trace.Span) string {
	reply, err := o.llm.Respond(ctx, o.instructions, &o.conversation, o.registry, o.toolCallBudget)
	if err == nil {
		return reply
	}

	if errors.Is(err, context.Canceled) {
		return ""
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, errToolBudgetExhausted) {
		reply = o.replies.ToolBudget
	} else {
		logger.ErrorContext(ctx, "inference failed, using fallback reply", "error", err)
		reply = o.replies.Inference
	}

	o.conversation.appendAssistant(reply, nil)
	o.emitEvent(events.NewAssistantResponseFinal(reply))
	return reply
}

// speak synthesizes and plays the reply. Synthesis failures end the turn
// silently; the reply text is already part of the conversation.
func (o *Orchestrator) speak(ctx context.Context, span trace.Span, reply string, locale string) {
	// Raises are only accepted while speaking, so clearing the latch before
	// the phase flips guarantees no raise from an earlier turn leaks into
	// this playback.
	o.interrupt.consume()
	o.setPhase(PhaseSpeaking)

	encodingInfo := audio.DefaultPlaybackEncoding()
	if o.audioOutput != nil {
		encodingInfo = o.audioOutput.EncodingInfo()
	}

	audioContent, err := o.textToSpeech.Synthesize(ctx, reply, locale, encodingInfo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "synthesis failed, ending turn silently", "error", err)
		return
	}

	if _, err := o.player.Play(ctx, audioContent, reply); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "playback failed", "error", err)
	}
}

// Interrupt requests that the current reply stop playing. It only has an
// effect while speaking; raises in any other phase are dropped. The return
// reports whether an interrupt was actually registered.
func (o *Orchestrator) Interrupt() bool {
	if o.phase.load() != PhaseSpeaking {
		return false
	}
	return o.interrupt.raise()
}

// Phase reports the current phase. Safe to call from any goroutine.
func (o *Orchestrator) Phase() Phase {
	return o.phase.load()
}

// Conversation returns a copy of the turn history so far.
func (o *Orchestrator) Conversation() []llms.Turn {
	return o.conversation.Snapshot()
}

// Reset clears the conversation history. The speech stack and language
// setting are left as they are.
func (o *Orchestrator) Reset() {
	o.conversation.Reset()
}

// Stop cancels the turn loop. In-flight playback is cut; the loop drains by
// the next phase boundary.
func (o *Orchestrator) Stop() {
	if o.stop != nil {
		o.stop()
	}
}

// AwaitCompletion blocks until the turn loop has exited.
func (o *Orchestrator) AwaitCompletion() {
	if o.started.Load() {
		<-o.done
	}
}

// Close stops the loop and releases the speech and audio clients. Safe to
// call more than once.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.closed.Store(true)
		o.Stop()
		o.AwaitCompletion()

		if o.audioInput != nil {
			if err := o.audioInput.StopCapture(); err != nil {
				logger.Error("failed to stop audio capture", "error", err)
			}
		}

		if err := o.speechToText.Close(context.Background()); err != nil {
			logger.Error("failed to close speech-to-text client", "error", err)
		}

		if err := o.textToSpeech.Close(); err != nil {
			logger.Error("failed to close text-to-speech client", "error", err)
		}

		closeAudioClient(o.audioInput)
		if any(o.audioOutput) != any(o.audioInput) {
			closeAudioClient(o.audioOutput)
		}
	})
}

// closeAudioClient releases a capture or playback client if it exposes a
// Close method. Devices shared between input and output are closed once.
func closeAudioClient(client any) {
	switch c := client.(type) {
	case interface{ Close() error }:
		_ = c.Close()
	case interface{ Close() }:
		c.Close()
	}
}

func (o *Orchestrator) setPhase(phase Phase) {
	if !o.phase.swap(phase) {
		return
	}

	o.emitEvent(events.NewPhaseChanged(phase.String()))
	if o.orchestrateOptions.onPhaseChanged != nil {
		o.orchestrateOptions.onPhaseChanged(phase)
	}
}

