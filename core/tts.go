package orchestration

import (
	"context"

	"github.com/menschrobotics/ruby-core/core/audio"
	"github.com/menschrobotics/ruby-core/core/texttospeech"
)

// textToSpeech wraps the configured synthesis client so the turn loop can
// treat a missing client as silent.
type textToSpeech struct {
	client TextToSpeech
}

func newTextToSpeech(client TextToSpeech) *textToSpeech {
	return &textToSpeech{client: client}
}

func (t *textToSpeech) set(client TextToSpeech) {
	if t != nil {
		t.client = client
	}
}

func (t *textToSpeech) isConfigured() bool {
	return t != nil && t.client != nil
}

// Synthesize renders the text in the given locale. A nil client yields no
// audio and no error.
func (t *textToSpeech) Synthesize(ctx context.Context, text string, language string, encodingInfo audio.EncodingInfo) ([]byte, error) {
	if !t.isConfigured() {
		return nil, nil
	}

	audioContent, err := t.client.Synthesize(ctx, text,
		texttospeech.WithLanguage(language),
		texttospeech.WithEncodingInfo(encodingInfo),
	)
	if err != nil {
		return nil, &SynthesisError{Err: err}
	}

	return audioContent, nil
}

func (t *textToSpeech) Close() error {
	if !t.isConfigured() {
		return nil
	}

	switch c := t.client.(type) {
	case interface{ Close() error }:
		return c.Close()
	case interface{ Close() }:
		c.Close()
	}

	return nil
}
