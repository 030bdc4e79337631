// Package tools implements the tool registry: named, schema-validated
// operations the inference engine can request during a turn.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/menschrobotics/ruby-core/core/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrDuplicateTool    = errors.New("tool name already registered")
	ErrUnknownTool      = errors.New("tool not found")
	ErrInvalidArguments = errors.New("invalid tool arguments")
	ErrEmptyToolName    = errors.New("tool name is empty")
	ErrToolExecution    = errors.New("tool execution failed")
)

// Spec is a registered tool: its wire definition plus registry metadata.
type Spec struct {
	llms.Tool

	// Stateful marks tools that hold a mutation handle into orchestrator
	// state. Stateless tools only ever see their declared arguments; the
	// split is an access-control boundary, not a type hierarchy.
	Stateful bool
}

// Result is what crosses the registry boundary. Failures are data, never
// panics or errors raised to the caller, so the orchestrator's retry logic
// stays uniform.
type Result struct {
	Content string
	IsError bool
}

// Payload renders the result as the string handed back to the model. Errors
// are wrapped in a small JSON object so the model can decide how to react.
func (r Result) Payload() string {
	if !r.IsError {
		return r.Content
	}

	payload, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: r.Content})
	if err != nil {
		return `{"error":"tool failed"}`
	}
	return string(payload)
}

// Registry maps tool names to specs. It is populated at startup and
// read-mostly afterwards.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
	order []string
}

func NewRegistry(specs ...Spec) (*Registry, error) {
	registry := &Registry{specs: map[string]Spec{}}
	for _, spec := range specs {
		if err := registry.Register(spec); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Register(spec Spec) error {
	name := spec.Function.Name
	if name == "" {
		return ErrEmptyToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.specs[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}

	r.specs[name] = spec
	r.order = append(r.order, name)
	return nil
}

// Definitions lists the wire definitions in registration order, for handing
// to the inference engine.
func (r *Registry) Definitions() []llms.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	definitions := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		definitions = append(definitions, r.specs[name].Tool)
	}
	return definitions
}

// Invoke validates arguments against the tool's schema and dispatches to the
// handler. All failure modes come back as a Result; nothing is raised across
// this boundary.
func (r *Registry) Invoke(ctx context.Context, name string, arguments string) Result {
	ctx, span := tracer.Start(ctx, "execute tool")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", name))

	r.mu.RLock()
	spec, ok := r.specs[name]
	r.mu.RUnlock()
	if !ok {
		return r.failure(ctx, span, fmt.Errorf("%w: %s", ErrUnknownTool, name))
	}

	if err := spec.ValidateArguments(arguments); err != nil {
		return r.failure(ctx, span, fmt.Errorf("%w: %s", ErrInvalidArguments, err.Error()))
	}

	content, err := r.execute(spec, arguments)
	if err != nil {
		return r.failure(ctx, span, fmt.Errorf("%w: %s", ErrToolExecution, err.Error()))
	}

	return Result{Content: content}
}

// execute runs the handler with a panic guard so a misbehaving tool cannot
// crash the turn.
func (r *Registry) execute(spec Spec, arguments string) (content string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("tool %q panicked: %v", spec.Function.Name, recovered)
		}
	}()

	return spec.Execute(arguments)
}

func (r *Registry) failure(ctx context.Context, span trace.Span, err error) Result {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.WarnContext(ctx, "tool invocation failed", "error", err)
	return Result{Content: err.Error(), IsError: true}
}
