// Package speechtotext defines the streaming transcription contract shared
// by all recognizer backends.
package speechtotext

import "github.com/menschrobotics/ruby-core/core/audio"

type TranscriptionOptions struct {
	// InterimTranscriptionCallback receives mutable interim snapshots while
	// the user is still speaking.
	InterimTranscriptionCallback func(transcript string)
	// TranscriptionCallback receives the terminal transcript for an
	// utterance, after end-of-speech was detected.
	TranscriptionCallback func(transcript string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	// Language is the BCP-47 locale to recognize.
	Language string
	// Phrases bias recognition towards expected vocabulary.
	Phrases      []string
	PhrasesBoost float32

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}

// WithPhrases biases recognition towards the given phrases. Backends that do
// not support phrase boosting ignore it.
func WithPhrases(phrases []string, boost float32) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Phrases = phrases
		o.PhrasesBoost = boost
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
