package events

// KindAssistantResponseFinal identifies finalized assistant replies.
const KindAssistantResponseFinal Kind = "assistant_response.final"

// AssistantResponseFinal carries the reply text that will be spoken.
type AssistantResponseFinal struct {
	Base
	Response string
}

func NewAssistantResponseFinal(response string) AssistantResponseFinal {
	return AssistantResponseFinal{Base: NewBase(KindAssistantResponseFinal), Response: response}
}
