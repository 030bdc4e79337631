package orchestration

// defaultInstructions is the persona used when the caller does not provide
// one. Replies are spoken aloud, so they have to stay short and free of
// markup.
const defaultInstructions = `You are Ruby, a friendly humanoid robot assistant built by Mensch Robotics.
You talk with people out loud, so keep every reply short, warm, and conversational.
Never use markdown, lists, emoji, or special characters; everything you say is spoken through a speech synthesizer.
Use the calculator tool for any arithmetic instead of computing it yourself.
Use the query_document tool when asked about the loaded documents and answer only from what it returns.
If the user asks to talk in another language, use the switch_language tool with one of the supported locales.
If you cannot help with something, say so briefly and kindly.`

// fallbackReply is spoken when inference fails. The model is not consulted
// again within the same turn.
const fallbackReply = "Sorry, I had trouble thinking about that. Could you say it again?"

// exhaustedBudgetReply is spoken when the model keeps requesting tools past
// the per-turn budget without producing an answer.
const exhaustedBudgetReply = "Sorry, I could not work that out. Could you try asking differently?"

// listeningFailureReply is spoken when recognition keeps failing past the
// retry budget. The failed utterance never reaches the conversation, so the
// reply asks the user to repeat it.
const listeningFailureReply = "Sorry, I could not hear you properly. Could you say that again?"

// FallbackReplies are the phrases spoken when a turn fails. Empty fields
// keep the stock phrasing.
type FallbackReplies struct {
	// Inference is spoken when the model call itself fails.
	Inference string
	// ToolBudget is spoken when the model exhausts its tool call budget.
	ToolBudget string
	// Listening is spoken when transcription fails past its retry budget.
	Listening string
}

func defaultFallbackReplies() FallbackReplies {
	return FallbackReplies{
		Inference:  fallbackReply,
		ToolBudget: exhaustedBudgetReply,
		Listening:  listeningFailureReply,
	}
}

func (r FallbackReplies) merge(overrides FallbackReplies) FallbackReplies {
	if overrides.Inference != "" {
		r.Inference = overrides.Inference
	}
	if overrides.ToolBudget != "" {
		r.ToolBudget = overrides.ToolBudget
	}
	if overrides.Listening != "" {
		r.Listening = overrides.Listening
	}
	return r
}
