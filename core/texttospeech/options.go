// Package texttospeech defines the synthesis contract shared by all
// synthesizer backends.
package texttospeech

import "github.com/menschrobotics/ruby-core/core/audio"

type SynthesizeOptions struct {
	// Language is the BCP-47 locale to synthesize in.
	Language string
	// SpeakingRate overrides the backend's per-language default when > 0.
	SpeakingRate float64

	EncodingInfo audio.EncodingInfo
}

type SynthesizeOption func(*SynthesizeOptions)

func WithLanguage(language string) SynthesizeOption {
	return func(o *SynthesizeOptions) {
		o.Language = language
	}
}

func WithSpeakingRate(rate float64) SynthesizeOption {
	return func(o *SynthesizeOptions) {
		o.SpeakingRate = rate
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesizeOption {
	return func(o *SynthesizeOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
