package llms

// Turn is a single turn taken in the conversation.
type Turn struct {
	Role TurnRole

	// Content is the content of the turn. In the user's turn it is the
	// transcript, in the assistant's turn it is the reply.
	Content string

	// ToolCalls holds the tool calls requested while producing this turn,
	// including their responses once executed.
	ToolCalls []ToolCall
}

// Response is a single response from an LLM. Either Content is a final
// natural-language reply, or ToolCalls carries structured tool-call requests
// that the orchestrator has to execute before prompting again.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// HasToolCalls reports whether the model asked for tools instead of (or in
// addition to) replying.
func (r *Response) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments string
	Response  string
}

// TurnRole describes who a turn is from.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
	TurnRoleTool      TurnRole = "tool"
)
