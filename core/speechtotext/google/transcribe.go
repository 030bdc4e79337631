// Package google implements streaming transcription against the Google
// Cloud Speech-to-Text API.
package google

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/menschrobotics/ruby-core/core/audio"
	"github.com/menschrobotics/ruby-core/core/speechtotext"
	"go.opentelemetry.io/otel/codes"
)

type TranscriptionClient struct {
	client *speech.Client

	stream speechpb.Speech_StreamingRecognizeClient
	connMu sync.Mutex
}

func NewTranscriptionClient(ctx context.Context) (*TranscriptionClient, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create google speech client: %w", err)
	}

	return &TranscriptionClient{client: client}, nil
}

// Transcribe opens a fresh recognition stream. A stream is finite per
// utterance: it ends at detected end-of-speech or when the context is
// cancelled, and cannot be restarted, only reopened.
func (s *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{EncodingInfo: audio.DefaultCaptureEncoding()}
	for _, opt := range opts {
		opt(options)
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	stream, err := s.client.StreamingRecognize(ctx)
	if err != nil {
		return fmt.Errorf("failed to open recognition stream: %w", err)
	}

	recognitionConfig := &speechpb.RecognitionConfig{
		Encoding:                   encoding,
		SampleRateHertz:            int32(options.EncodingInfo.SampleRate),
		LanguageCode:               options.Language,
		EnableAutomaticPunctuation: true,
	}
	if len(options.Phrases) > 0 {
		recognitionConfig.SpeechContexts = []*speechpb.SpeechContext{{
			Phrases: options.Phrases,
			Boost:   options.PhrasesBoost,
		}}
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config:         recognitionConfig,
				InterimResults: options.InterimTranscriptionCallback != nil,
			},
		},
	}); err != nil {
		return fmt.Errorf("failed to send recognition config: %w", err)
	}

	s.connMu.Lock()
	s.stream = stream
	s.connMu.Unlock()

	go s.readAndProcessResponses(ctx, stream, *options)

	return nil
}

func (s *TranscriptionClient) SendAudio(audioChunk []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.stream == nil {
		return nil
	}

	if err := s.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audioChunk,
		},
	}); err != nil {
		return fmt.Errorf("failed to send audio to recognition stream: %w", err)
	}
	return nil
}

// StopStream half-closes the current stream so the backend flushes its final
// result.
func (s *TranscriptionClient) StopStream() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.stream == nil {
		return nil
	}

	if err := s.stream.CloseSend(); err != nil {
		return fmt.Errorf("failed to close recognition stream: %w", err)
	}
	return nil
}

func (s *TranscriptionClient) Close(ctx context.Context) error {
	_ = s.StopStream()
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close google speech client: %w", err)
	}
	return nil
}

func (s *TranscriptionClient) readAndProcessResponses(
	ctx context.Context,
	stream speechpb.Speech_StreamingRecognizeClient,
	options speechtotext.TranscriptionOptions,
) {
	span := tracerSpan(ctx)
	speechStarted := false

	defer func() {
		s.connMu.Lock()
		if s.stream == stream {
			s.stream = nil
		}
		s.connMu.Unlock()
	}()

	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			if ctx.Err() == nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return
		}

		if len(resp.Results) == 0 {
			continue
		}

		result := resp.Results[0]
		if len(result.Alternatives) == 0 {
			continue
		}
		transcript := strings.TrimSpace(result.Alternatives[0].Transcript)

		if !speechStarted && transcript != "" {
			speechStarted = true
			if options.SpeechStartedCallback != nil {
				options.SpeechStartedCallback()
			}
		}

		if result.IsFinal {
			if options.SpeechEndedCallback != nil {
				options.SpeechEndedCallback()
			}
			if options.TranscriptionCallback != nil {
				options.TranscriptionCallback(transcript)
			}
			return
		}

		if options.InterimTranscriptionCallback != nil && transcript != "" {
			options.InterimTranscriptionCallback(transcript)
		}
	}
}

func convertEncoding(encodingInfo audio.EncodingInfo) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encodingInfo.Format.Name() {
	case "linear16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "mulaw":
		return speechpb.RecognitionConfig_MULAW, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
			fmt.Errorf("unsupported encoding: %s", encodingInfo.Format.Name())
	}
}
