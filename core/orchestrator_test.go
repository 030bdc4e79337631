package orchestration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/menschrobotics/ruby-core/core/events"
	"github.com/menschrobotics/ruby-core/core/llms"
	"github.com/menschrobotics/ruby-core/core/speechtotext"
	"github.com/menschrobotics/ruby-core/core/tools"
)

const testTimeout = 5 * time.Second

func startTestOrchestrator(t *testing.T, opts ...OrchestratorOption) (*Orchestrator, chan events.Event, chan Phase) {
	t.Helper()

	eventChan := make(chan events.Event, 128)
	phaseChan := make(chan Phase, 128)

	opts = append(opts, WithListenTimeout(30*time.Millisecond))
	orchestrator := NewOrchestrator(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		orchestrator.Close()
	})

	// Callbacks drop on a full buffer so a slow test can never stall the
	// turn loop goroutine.
	if err := orchestrator.Start(ctx,
		WithEventCallback(func(event events.Event) {
			select {
			case eventChan <- event:
			default:
			}
		}),
		WithPhaseCallback(func(phase Phase) {
			select {
			case phaseChan <- phase:
			default:
			}
		}),
	); err != nil {
		t.Fatalf("expected orchestrator to start, got %v", err)
	}

	return orchestrator, eventChan, phaseChan
}

func awaitEvent[E events.Event](t *testing.T, eventChan chan events.Event) E {
	t.Helper()

	deadline := time.After(testTimeout)
	for {
		select {
		case event := <-eventChan:
			if typedEvent, ok := event.(E); ok {
				return typedEvent
			}
		case <-deadline:
			var zero E
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func awaitPhase(t *testing.T, phaseChan chan Phase, want Phase) {
	t.Helper()

	deadline := time.After(testTimeout)
	for {
		select {
		case phase := <-phaseChan:
			if phase == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for phase %v", want)
		}
	}
}

// speakOnce returns an STT stub that delivers each transcript on consecutive
// listening windows and then goes quiet.
func speakOnce(transcripts ...string) *speechToTextClientStub {
	return &speechToTextClientStub{
		transcribe: func(call int, opts speechtotext.TranscriptionOptions) {
			if call <= len(transcripts) {
				opts.TranscriptionCallback(transcripts[call-1])
			}
		},
	}
}

func TestTurnAnswersThroughToolCall(t *testing.T) {
	registry, err := tools.NewRegistry(tools.NewCalculatorTool())
	if err != nil {
		t.Fatalf("expected registry to build, got %v", err)
	}

	llmClient := &llmClientStub{
		respond: func(call int, opts llms.PromptOptions) (*llms.Response, error) {
			if call == 1 {
				if len(opts.Tools) == 0 {
					return nil, errors.New("expected tools on first prompt")
				}
				return &llms.Response{ToolCalls: []llms.ToolCall{{
					ID:        "call-1",
					Name:      "calculator",
					Arguments: `{"expression": "12 * 7"}`,
				}}}, nil
			}

			lastTurn := opts.Turns[len(opts.Turns)-1]
			if lastTurn.Role != llms.TurnRoleTool {
				return nil, errors.New("expected tool response turn before second prompt")
			}
			if !strings.Contains(lastTurn.ToolCalls[0].Response, "84") {
				return nil, errors.New("expected tool response to contain 84")
			}
			return &llms.Response{Content: "Twelve times seven is 84."}, nil
		},
	}

	_, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("what is 12 times 7")),
		WithLLM(llmClient),
		WithToolRegistry(registry),
	)

	completed := awaitEvent[events.ToolCallCompleted](t, eventChan)
	if completed.Name != "calculator" || completed.Response != "84" {
		t.Fatalf("expected calculator to return 84, got %q from %q", completed.Response, completed.Name)
	}

	response := awaitEvent[events.AssistantResponseFinal](t, eventChan)
	if !strings.Contains(response.Response, "84") {
		t.Fatalf("expected final response to mention 84, got %q", response.Response)
	}
}

func TestTurnRecordsConversationHistory(t *testing.T) {
	llmClient := &llmClientStub{
		respond: func(int, llms.PromptOptions) (*llms.Response, error) {
			return &llms.Response{Content: "Hello there."}, nil
		},
	}

	orchestrator, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("hello")),
		WithLLM(llmClient),
	)

	awaitEvent[events.AssistantResponseFinal](t, eventChan)

	turns := orchestrator.Conversation()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != llms.TurnRoleUser || turns[0].Content != "hello" {
		t.Fatalf("expected user turn \"hello\", got %+v", turns[0])
	}
	if turns[1].Role != llms.TurnRoleAssistant || turns[1].Content != "Hello there." {
		t.Fatalf("expected assistant turn, got %+v", turns[1])
	}
}

func TestWhitespaceTranscriptNeverReachesModel(t *testing.T) {
	llmClient := &llmClientStub{
		respond: func(int, llms.PromptOptions) (*llms.Response, error) {
			return &llms.Response{Content: "should not happen"}, nil
		},
	}

	orchestrator, _, phaseChan := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("   \t  ")),
		WithLLM(llmClient),
	)

	awaitPhase(t, phaseChan, PhaseListening)
	awaitPhase(t, phaseChan, PhaseIdle)

	if count := llmClient.promptCount(); count != 0 {
		t.Fatalf("expected no prompts for a blank transcript, got %d", count)
	}
	if turns := orchestrator.Conversation(); len(turns) != 0 {
		t.Fatalf("expected empty conversation, got %d turns", len(turns))
	}
}

func TestInferenceFailureSpeaksFallback(t *testing.T) {
	llmClient := &llmClientStub{
		respond: func(int, llms.PromptOptions) (*llms.Response, error) {
			return nil, errors.New("model unavailable")
		},
	}

	orchestrator, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("hello")),
		WithLLM(llmClient),
	)

	response := awaitEvent[events.AssistantResponseFinal](t, eventChan)
	if response.Response != fallbackReply {
		t.Fatalf("expected fallback reply, got %q", response.Response)
	}

	if count := llmClient.promptCount(); count != 1 {
		t.Fatalf("expected a single prompt without retries, got %d", count)
	}

	turns := orchestrator.Conversation()
	if len(turns) != 2 || turns[1].Content != fallbackReply {
		t.Fatalf("expected fallback recorded in conversation, got %+v", turns)
	}
}

func TestTranscriptionFailureSpeaksFallback(t *testing.T) {
	sttClient := &speechToTextClientStub{
		transcribeErr: func(int) error { return errors.New("stream refused") },
	}
	llmClient := &llmClientStub{
		respond: func(int, llms.PromptOptions) (*llms.Response, error) {
			return &llms.Response{Content: "should not happen"}, nil
		},
	}
	ttsClient := &textToSpeechClientStub{audio: []byte{1, 2, 3}}

	orchestrator, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(sttClient),
		WithLLM(llmClient),
		WithTextToSpeechClient(ttsClient),
		WithAudioOutput(&audioOutputStub{drain: 1000}),
		WithTranscriptionRetries(1),
		WithInterruptPollInterval(5*time.Millisecond),
	)

	response := awaitEvent[events.AssistantResponseFinal](t, eventChan)
	if response.Response != listeningFailureReply {
		t.Fatalf("expected listening fallback, got %q", response.Response)
	}
	awaitEvent[events.AssistantPlaybackEnded](t, eventChan)

	ttsClient.mu.Lock()
	spoken := append([]string(nil), ttsClient.texts...)
	ttsClient.mu.Unlock()
	if len(spoken) == 0 || spoken[0] != listeningFailureReply {
		t.Fatalf("expected the fallback to be synthesized, got %v", spoken)
	}

	if count := llmClient.promptCount(); count != 0 {
		t.Fatalf("expected the model to stay out of a failed listen, got %d prompts", count)
	}
	if turns := orchestrator.Conversation(); len(turns) != 0 {
		t.Fatalf("expected no conversation turns without an utterance, got %d", len(turns))
	}
	if attempts := sttClient.calls.Load(); attempts < 2 {
		t.Fatalf("expected at least one retry before the fallback, got %d attempts", attempts)
	}
}

func TestFallbackPhrasingIsConfigurable(t *testing.T) {
	llmClient := &llmClientStub{
		respond: func(int, llms.PromptOptions) (*llms.Response, error) {
			return nil, errors.New("model unavailable")
		},
	}

	_, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("hello")),
		WithLLM(llmClient),
		WithFallbackReplies(FallbackReplies{Inference: "My brain needs a moment."}),
	)

	response := awaitEvent[events.AssistantResponseFinal](t, eventChan)
	if response.Response != "My brain needs a moment." {
		t.Fatalf("expected overridden fallback, got %q", response.Response)
	}
}

func TestToolBudgetExhaustionSpeaksApology(t *testing.T) {
	registry, err := tools.NewRegistry(tools.NewCalculatorTool())
	if err != nil {
		t.Fatalf("expected registry to build, got %v", err)
	}

	llmClient := &llmClientStub{
		respond: func(call int, opts llms.PromptOptions) (*llms.Response, error) {
			return &llms.Response{ToolCalls: []llms.ToolCall{{
				ID:        "call",
				Name:      "calculator",
				Arguments: `{"expression": "1 + 1"}`,
			}}}, nil
		},
	}

	_, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("loop forever")),
		WithLLM(llmClient),
		WithToolRegistry(registry),
		WithToolCallBudget(2),
	)

	response := awaitEvent[events.AssistantResponseFinal](t, eventChan)
	if response.Response != exhaustedBudgetReply {
		t.Fatalf("expected budget apology, got %q", response.Response)
	}

	// Budget of 2 means two prompts with tools and one final one without.
	if count := llmClient.promptCount(); count != 3 {
		t.Fatalf("expected 3 prompts, got %d", count)
	}
	if last := llmClient.prompt(3); len(last.Tools) != 0 {
		t.Fatalf("expected final prompt without tools, got %d tools", len(last.Tools))
	}
}

func TestToolFailureIsReturnedToModelAsData(t *testing.T) {
	registry, err := tools.NewRegistry(tools.NewCalculatorTool())
	if err != nil {
		t.Fatalf("expected registry to build, got %v", err)
	}

	llmClient := &llmClientStub{
		respond: func(call int, opts llms.PromptOptions) (*llms.Response, error) {
			if call == 1 {
				return &llms.Response{ToolCalls: []llms.ToolCall{{
					ID:        "call-1",
					Name:      "calculator",
					Arguments: `{"expression": "1 / 0"}`,
				}}}, nil
			}

			lastTurn := opts.Turns[len(opts.Turns)-1]
			if !strings.Contains(lastTurn.ToolCalls[0].Response, "error") {
				return nil, errors.New("expected structured error payload")
			}
			return &llms.Response{Content: "I could not divide by zero."}, nil
		},
	}

	_, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("divide one by zero")),
		WithLLM(llmClient),
		WithToolRegistry(registry),
	)

	awaitEvent[events.ToolCallFailed](t, eventChan)

	response := awaitEvent[events.AssistantResponseFinal](t, eventChan)
	if !strings.Contains(response.Response, "zero") {
		t.Fatalf("expected the model to explain the failure, got %q", response.Response)
	}
}

func TestInterruptStopsPlaybackImmediately(t *testing.T) {
	llmClient := &llmClientStub{
		respond: func(int, llms.PromptOptions) (*llms.Response, error) {
			return &llms.Response{Content: "a very long answer"}, nil
		},
	}
	output := &audioOutputStub{}

	orchestrator, eventChan, phaseChan := startTestOrchestrator(t,
		WithSpeechToTextClient(speakOnce("talk to me")),
		WithLLM(llmClient),
		WithTextToSpeechClient(&textToSpeechClientStub{audio: make([]byte, 48000)}),
		WithAudioOutput(output),
	)

	awaitPhase(t, phaseChan, PhaseSpeaking)

	if !orchestrator.Interrupt() {
		t.Fatalf("expected interrupt to register while speaking")
	}

	awaitEvent[events.AssistantPlaybackInterrupted](t, eventChan)
	awaitPhase(t, phaseChan, PhaseIdle)

	if !output.wasCleared() {
		t.Fatalf("expected queued audio to be dropped on interrupt")
	}
}

func TestInterruptOutsideSpeakingIsDropped(t *testing.T) {
	orchestrator, _, phaseChan := startTestOrchestrator(t,
		WithSpeechToTextClient(&speechToTextClientStub{}),
	)

	awaitPhase(t, phaseChan, PhaseListening)

	if orchestrator.Interrupt() {
		t.Fatalf("expected interrupt to be dropped while listening")
	}
	if orchestrator.interrupt.pending() {
		t.Fatalf("expected no pending interrupt after a dropped raise")
	}
}

func TestLanguageSwitchTakesEffectNextTurn(t *testing.T) {
	sttClient := speakOnce("speak malayalam please", "hello again")

	llmClient := &llmClientStub{
		respond: func(call int, opts llms.PromptOptions) (*llms.Response, error) {
			switch call {
			case 1:
				return &llms.Response{ToolCalls: []llms.ToolCall{{
					ID:        "call-1",
					Name:      "switch_language",
					Arguments: `{"locale": "ml-IN"}`,
				}}}, nil
			default:
				return &llms.Response{Content: "ok"}, nil
			}
		},
	}

	ttsClient := &textToSpeechClientStub{}

	var registry *tools.Registry
	buildTools := func(o *Orchestrator) {
		var err error
		registry, err = tools.NewRegistry(o.LanguageTools()...)
		if err != nil {
			t.Fatalf("expected registry to build, got %v", err)
		}
		o.registry = registry
	}

	subject, eventChan, _ := startTestOrchestrator(t,
		WithSpeechToTextClient(sttClient),
		WithLLM(llmClient),
		WithTextToSpeechClient(ttsClient),
		buildTools,
	)

	switched := awaitEvent[events.LanguageSwitched](t, eventChan)
	if switched.Locale != "ml-IN" {
		t.Fatalf("expected switch to ml-IN, got %q", switched.Locale)
	}

	if active := subject.ActiveLanguage(); active != "ml-IN" {
		t.Fatalf("expected active language ml-IN after the switch landed, got %q", active)
	}

	deadline := time.After(testTimeout)
	for {
		languages := sttClient.recordedLanguages()
		if len(languages) >= 2 {
			if languages[0] != "en-IN" || languages[1] != "ml-IN" {
				t.Fatalf("expected listening locales [en-IN ml-IN], got %v", languages)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for second listening window")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
