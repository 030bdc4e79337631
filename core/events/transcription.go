package events

// KindUserTranscriptInterim identifies interim transcript snapshots.
const KindUserTranscriptInterim Kind = "user_input.transcript_interim"

// UserTranscriptInterim carries a mutable interim transcript snapshot.
type UserTranscriptInterim struct {
	Base
	Transcript string
}

func NewUserTranscriptInterim(transcript string) UserTranscriptInterim {
	return UserTranscriptInterim{Base: NewBase(KindUserTranscriptInterim), Transcript: transcript}
}

// KindUserTranscriptFinal identifies terminal utterance transcripts.
const KindUserTranscriptFinal Kind = "user_input.transcript_final"

// UserTranscriptFinal carries the terminal transcript for the utterance.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}
