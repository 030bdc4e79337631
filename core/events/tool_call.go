package events

// KindToolCallStarted identifies the start of a tool execution.
const KindToolCallStarted Kind = "tool_call.started"

// ToolCallStarted marks the start of a tool execution.
type ToolCallStarted struct {
	Base
	ID        string
	Name      string
	Arguments string
}

func NewToolCallStarted(id, name, arguments string) ToolCallStarted {
	return ToolCallStarted{Base: NewBase(KindToolCallStarted), ID: id, Name: name, Arguments: arguments}
}

// KindToolCallCompleted identifies a completed tool execution.
const KindToolCallCompleted Kind = "tool_call.completed"

// ToolCallCompleted marks a completed tool execution.
type ToolCallCompleted struct {
	Base
	ID       string
	Name     string
	Response string
}

func NewToolCallCompleted(id, name, response string) ToolCallCompleted {
	return ToolCallCompleted{Base: NewBase(KindToolCallCompleted), ID: id, Name: name, Response: response}
}

// KindToolCallFailed identifies a failed tool execution.
const KindToolCallFailed Kind = "tool_call.failed"

// ToolCallFailed marks a failed tool execution. The error is surfaced back
// into the inference loop as structured data.
type ToolCallFailed struct {
	Base
	ID    string
	Name  string
	Error string
}

func NewToolCallFailed(id, name, err string) ToolCallFailed {
	return ToolCallFailed{Base: NewBase(KindToolCallFailed), ID: id, Name: name, Error: err}
}
