// Command ruby runs the Ruby robot assistant: microphone in, speech
// recognition, tool-calling inference, speech synthesis out, with a terminal
// status display.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	orchestration "github.com/menschrobotics/ruby-core/core"
	"github.com/menschrobotics/ruby-core/core/audio/miniaudio"
	"github.com/menschrobotics/ruby-core/core/audio/portaudio"
	"github.com/menschrobotics/ruby-core/core/llms/openai"
	"github.com/menschrobotics/ruby-core/core/rag"
	ragopenai "github.com/menschrobotics/ruby-core/core/rag/openai"
	"github.com/menschrobotics/ruby-core/core/speechtotext/deepgram"
	sttgoogle "github.com/menschrobotics/ruby-core/core/speechtotext/google"
	ttsgoogle "github.com/menschrobotics/ruby-core/core/texttospeech/google"
	"github.com/menschrobotics/ruby-core/core/tools"
	"github.com/menschrobotics/ruby-core/ui"
	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	llm, err := openai.NewClient(envOr("RUBY_MODEL", "gpt-4o-mini"))
	if err != nil {
		return fmt.Errorf("failed to create inference client: %w", err)
	}

	speechToText, err := newSpeechToText(ctx)
	if err != nil {
		return fmt.Errorf("failed to create speech-to-text client: %w", err)
	}

	textToSpeech, err := ttsgoogle.NewSynthesisClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create text-to-speech client: %w", err)
	}

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}

	registry, err := newToolRegistry(ctx)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	orchestratorOptions := []orchestration.OrchestratorOption{
		orchestration.WithLLM(llm),
		orchestration.WithSpeechToTextClient(speechToText),
		orchestration.WithTextToSpeechClient(textToSpeech),
		orchestration.WithAudioOutput(audioClient),
		orchestration.WithToolRegistry(registry),
		orchestration.WithLanguages(ttsgoogle.SupportedLanguages(), orchestration.DefaultLocale),
		orchestration.WithBoostPhrases([]string{"Ruby", "Mensch Robotics"}, 15),
	}

	if os.Getenv("RUBY_AUDIO_INPUT") == "portaudio" {
		input, err := portaudio.NewClient(1024)
		if err != nil {
			return fmt.Errorf("failed to open portaudio capture: %w", err)
		}
		orchestratorOptions = append(orchestratorOptions, orchestration.WithAudioInput(input))
	} else {
		orchestratorOptions = append(orchestratorOptions, orchestration.WithAudioInput(audioClient))
	}

	orchestrator := orchestration.NewOrchestrator(orchestratorOptions...)
	defer orchestrator.Close()

	for _, spec := range orchestrator.LanguageTools() {
		if err := registry.Register(spec); err != nil {
			return fmt.Errorf("failed to register language tool: %w", err)
		}
	}

	display := ui.New(func() { orchestrator.Interrupt() })

	if err := orchestrator.Start(ctx,
		orchestration.WithEventCallback(display.NotifyEvent),
		orchestration.WithPhaseCallback(display.NotifyPhase),
	); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	return display.Run(ctx)
}

// newSpeechToText picks the recognition backend. Google streaming recognition
// is the default; RUBY_STT=deepgram switches to the websocket client.
func newSpeechToText(ctx context.Context) (orchestration.SpeechToText, error) {
	if os.Getenv("RUBY_STT") == "deepgram" {
		return deepgram.NewTranscriptionClient(), nil
	}
	return sttgoogle.NewTranscriptionClient(ctx)
}

// newToolRegistry assembles the stateless tools and loads the document index
// when one is configured.
func newToolRegistry(ctx context.Context) (*tools.Registry, error) {
	specs := []tools.Spec{
		tools.NewCalculatorTool(),
		tools.NewVideoPlayerTool(),
	}

	if index, err := newDocumentIndex(ctx); err != nil {
		return nil, err
	} else if index != nil {
		specs = append(specs, tools.NewDocumentQueryTool(index))
	}

	if port, ok := os.LookupEnv("RUBY_SERIAL_PORT"); ok {
		baudRate := 9600
		if raw, ok := os.LookupEnv("RUBY_SERIAL_BAUD"); ok {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid RUBY_SERIAL_BAUD %q: %w", raw, err)
			}
			baudRate = parsed
		}
		specs = append(specs, tools.NewSerialCommandTool(port, baudRate))
	}

	return tools.NewRegistry(specs...)
}

// newDocumentIndex builds the retrieval index and ingests the configured
// document. Returns nil when no embedding key is available so the assistant
// still runs without document lookup.
func newDocumentIndex(ctx context.Context) (*rag.Index, error) {
	embedder, err := ragopenai.NewEmbedder("text-embedding-3-small")
	if err != nil {
		log.Println("document lookup disabled:", err)
		return nil, nil
	}

	indexOptions := []rag.IndexOption{rag.WithFs(afero.NewOsFs())}
	if path, ok := os.LookupEnv("RUBY_INDEX_PATH"); ok {
		indexOptions = append(indexOptions, rag.WithPath(path))
	}

	index, err := rag.NewIndex(embedder, indexOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to open document index: %w", err)
	}

	if document, ok := os.LookupEnv("RUBY_DOCUMENT_PATH"); ok {
		if err := index.IngestFile(ctx, document); err != nil {
			return nil, fmt.Errorf("failed to ingest %s: %w", document, err)
		}
	}

	return index, nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
