// Package google implements speech synthesis against the Google Cloud
// Text-to-Speech API.
package google

import (
	"context"
	"fmt"
	"slices"

	texttospeechapi "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/menschrobotics/ruby-core/core/audio"
	"github.com/menschrobotics/ruby-core/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const fallbackLanguage = "en-IN"

// voiceConfig picks a concrete voice per supported locale.
type voiceConfig struct {
	voiceName    string
	gender       texttospeechpb.SsmlVoiceGender
	speakingRate float64
}

var languageConfig = map[string]voiceConfig{
	"en-IN": {voiceName: "en-IN-Standard-D", gender: texttospeechpb.SsmlVoiceGender_FEMALE, speakingRate: 0.75},
	"ml-IN": {voiceName: "ml-IN-Standard-A", gender: texttospeechpb.SsmlVoiceGender_FEMALE, speakingRate: 0.75},
	"ta-IN": {voiceName: "ta-IN-Standard-A", gender: texttospeechpb.SsmlVoiceGender_FEMALE, speakingRate: 0.75},
}

type SynthesisClient struct {
	client *texttospeechapi.Client
}

func NewSynthesisClient(ctx context.Context) (*SynthesisClient, error) {
	client, err := texttospeechapi.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create google text-to-speech client: %w", err)
	}

	return &SynthesisClient{client: client}, nil
}

// SupportedLanguages lists the locales a voice is configured for.
func SupportedLanguages() []string {
	languages := make([]string, 0, len(languageConfig))
	for language := range languageConfig {
		languages = append(languages, language)
	}
	slices.Sort(languages)
	return languages
}

// Synthesize produces raw PCM for the given text. Unsupported locales fall
// back to en-IN rather than failing the turn.
func (c *SynthesisClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesizeOption) ([]byte, error) {
	options := texttospeech.SynthesizeOptions{
		Language:     fallbackLanguage,
		EncodingInfo: audio.DefaultPlaybackEncoding(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	voice, ok := languageConfig[options.Language]
	if !ok {
		logger.WarnContext(ctx, "language not supported, falling back",
			"language", options.Language, "fallback", fallbackLanguage)
		options.Language = fallbackLanguage
		voice = languageConfig[fallbackLanguage]
	}

	speakingRate := voice.speakingRate
	if options.SpeakingRate > 0 {
		speakingRate = options.SpeakingRate
	}

	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()
	span.SetAttributes(
		attribute.String("tts.language", options.Language),
		attribute.String("tts.voice", voice.voiceName),
	)

	resp, err := c.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: options.Language,
			Name:         voice.voiceName,
			SsmlGender:   voice.gender,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(options.EncodingInfo.SampleRate),
			SpeakingRate:    speakingRate,
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return stripWAVHeader(resp.AudioContent), nil
}

func (c *SynthesisClient) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close google text-to-speech client: %w", err)
	}
	return nil
}

// stripWAVHeader drops the RIFF header LINEAR16 responses carry so the
// payload is raw PCM ready for the playback device.
func stripWAVHeader(audioContent []byte) []byte {
	const headerSize = 44
	if len(audioContent) > headerSize &&
		string(audioContent[0:4]) == "RIFF" {
		return audioContent[headerSize:]
	}
	return audioContent
}
