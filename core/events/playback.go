package events

// KindAssistantPlaybackEnded identifies normal playback completion.
const KindAssistantPlaybackEnded Kind = "assistant_playback.ended"

// AssistantPlaybackEnded marks normal completion of speech playback.
type AssistantPlaybackEnded struct {
	Base
	Transcript string
}

func NewAssistantPlaybackEnded(transcript string) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), Transcript: transcript}
}

// KindAssistantPlaybackInterrupted identifies playback cut short by the user.
const KindAssistantPlaybackInterrupted Kind = "assistant_playback.interrupted"

// AssistantPlaybackInterrupted marks playback stopped by a user interrupt.
type AssistantPlaybackInterrupted struct{ Base }

func NewAssistantPlaybackInterrupted() AssistantPlaybackInterrupted {
	return AssistantPlaybackInterrupted{Base: NewBase(KindAssistantPlaybackInterrupted)}
}
