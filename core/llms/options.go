package llms

// PromptOptions collects everything an adapter needs for one model call.
type PromptOptions struct {
	Instructions string
	Turns        []Turn
	Tools        []Tool
	Stream       func(string)
}

type PromptOption func(*PromptOptions)

// WithSystemPrompt sets the system prompt for the call. Repeating this
// option overwrites the previous system prompt.
func WithSystemPrompt(prompt string) PromptOption {
	return func(opts *PromptOptions) {
		opts.Instructions = prompt
	}
}

// WithTurns adds conversation history to the call. Repeating this option
// sequentially adds more turns.
func WithTurns(turns ...Turn) PromptOption {
	return func(opts *PromptOptions) {
		opts.Turns = append(opts.Turns, turns...)
	}
}

// WithTools exposes tools to the model for this call.
func WithTools(tools ...Tool) PromptOption {
	return func(opts *PromptOptions) {
		opts.Tools = append(opts.Tools, tools...)
	}
}

// WithStream registers a callback for streamed response chunks. Adapters
// that do not stream ignore it.
func WithStream(stream func(string)) PromptOption {
	return func(opts *PromptOptions) {
		opts.Stream = stream
	}
}
