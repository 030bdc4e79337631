package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/menschrobotics/ruby-core/core/events"
	"github.com/menschrobotics/ruby-core/core/llms"
	"github.com/menschrobotics/ruby-core/core/tools"
)

// errToolBudgetExhausted signals that the model kept requesting tools past
// the per-turn budget without producing an answer.
var errToolBudgetExhausted = errors.New("tool call budget exhausted")

// llm wraps the configured inference client and runs the tool loop for a
// single turn.
type llm struct {
	client LLM

	emitEvent eventEmitter
}

func newLLM(client LLM) *llm {
	return &llm{
		client:    client,
		emitEvent: noopEventEmitter,
	}
}

func (l *llm) set(client LLM) {
	if l != nil {
		l.client = client
	}
}

func (l *llm) isConfigured() bool {
	return l != nil && l.client != nil
}

func (l *llm) setEventEmitter(emitEvent eventEmitter) {
	if l == nil {
		return
	}
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	l.emitEvent = emitEvent
}

// Respond runs inference until the model produces plain text, executing
// requested tools along the way. Tool results always go back to the model as
// data; the model is never bypassed. Once the budget is spent the model is
// prompted one last time without tools.
func (l *llm) Respond(
	ctx context.Context,
	instructions string,
	conversation *conversation,
	registry *tools.Registry,
	budget int,
) (string, error) {
	if !l.isConfigured() {
		return "", &InferenceError{Err: errors.New("no inference client configured")}
	}

	for round := 0; ; round++ {
		toolsAllowed := registry != nil && round < budget

		opts := []llms.PromptOption{
			llms.WithSystemPrompt(instructions),
			llms.WithTurns(conversation.Snapshot()...),
		}
		if toolsAllowed {
			opts = append(opts, llms.WithTools(registry.Definitions()...))
		}

		response, err := l.client.Prompt(ctx, opts...)
		if err != nil {
			return "", &InferenceError{Err: fmt.Errorf("prompt failed: %w", err)}
		}

		if !response.HasToolCalls() {
			conversation.appendAssistant(response.Content, nil)
			l.emitEvent(events.NewAssistantResponseFinal(response.Content))
			return response.Content, nil
		}

		if !toolsAllowed {
			return "", errToolBudgetExhausted
		}

		calls := l.executeToolCalls(ctx, registry, response.ToolCalls)
		conversation.appendAssistant(response.Content, calls)
		conversation.appendToolResponses(calls)
	}
}

func (l *llm) executeToolCalls(ctx context.Context, registry *tools.Registry, requested []llms.ToolCall) []llms.ToolCall {
	calls := make([]llms.ToolCall, len(requested))
	copy(calls, requested)

	for i, call := range calls {
		l.emitEvent(events.NewToolCallStarted(call.ID, call.Name, call.Arguments))

		result := registry.Invoke(ctx, call.Name, call.Arguments)
		calls[i].Response = result.Payload()

		if result.IsError {
			l.emitEvent(events.NewToolCallFailed(call.ID, call.Name, result.Content))
		} else {
			l.emitEvent(events.NewToolCallCompleted(call.ID, call.Name, result.Content))
		}
	}

	return calls
}
