// Package rag implements the document retrieval index: chunking, embedding,
// persisted vector storage and nearest-neighbour queries.
package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrEmptyIndex is returned by Query before anything was ingested.
var ErrEmptyIndex = errors.New("retrieval index is empty")

// Chunk is a unit of ingested document text plus its embedding. Chunks are
// immutable once stored; the index is only ever appended to or rebuilt.
type Chunk struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"source_id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Offset    int       `json:"offset"`
}

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk
	Score float64
}

// Embedder turns texts into embedding vectors. One call embeds a batch so
// ingestion can fail atomically before anything is persisted.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type Index struct {
	fs   afero.Fs
	path string

	embedder Embedder
	splitter splitter

	mu     sync.RWMutex
	chunks []Chunk
}

type IndexOption func(*Index)

// WithFs overrides the filesystem the index persists to.
func WithFs(fs afero.Fs) IndexOption {
	return func(i *Index) { i.fs = fs }
}

// WithPath overrides where the index file lives.
func WithPath(path string) IndexOption {
	return func(i *Index) { i.path = path }
}

// WithChunking overrides the chunk size and overlap tunables.
func WithChunking(size, overlap int) IndexOption {
	return func(i *Index) { i.splitter = splitter{chunkSize: size, chunkOverlap: overlap} }
}

const defaultIndexPath = "ruby_rag/index.json"

// NewIndex builds an index and loads any previously persisted chunks.
func NewIndex(embedder Embedder, opts ...IndexOption) (*Index, error) {
	index := &Index{
		fs:       afero.NewOsFs(),
		path:     defaultIndexPath,
		embedder: embedder,
		splitter: defaultSplitter(),
	}
	for _, opt := range opts {
		opt(index)
	}

	if err := index.load(); err != nil {
		return nil, fmt.Errorf("failed to load retrieval index: %w", err)
	}

	return index, nil
}

// Ingest chunks, embeds and durably appends a document. Either all new
// chunks are added or, on any failure, the index is left exactly as it was.
func (i *Index) Ingest(ctx context.Context, sourceID string, text string) error {
	ctx, span := tracer.Start(ctx, "ingest document")
	defer span.End()
	span.SetAttributes(attribute.String("rag.source_id", sourceID))

	pieces := i.splitter.Split(text)
	if len(pieces) == 0 {
		return nil
	}

	texts := make([]string, len(pieces))
	for n, piece := range pieces {
		texts[n] = piece.text
	}

	embeddings, err := i.embedder.Embed(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to embed document chunks: %w", err)
	}
	if len(embeddings) != len(pieces) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(pieces))
	}

	newChunks := make([]Chunk, len(pieces))
	for n, piece := range pieces {
		newChunks[n] = Chunk{
			ID:        uuid.NewString(),
			SourceID:  sourceID,
			Text:      piece.text,
			Embedding: embeddings[n],
			Offset:    piece.offset,
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	combined := make([]Chunk, 0, len(i.chunks)+len(newChunks))
	combined = append(combined, i.chunks...)
	combined = append(combined, newChunks...)

	if err := i.persist(combined); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to persist retrieval index: %w", err)
	}

	i.chunks = combined
	logger.InfoContext(ctx, "document ingested",
		"source_id", sourceID, "chunks", len(newChunks), "total", len(combined))
	return nil
}

// IngestFile reads a document from the index's filesystem and ingests it
// under its path as the source id.
func (i *Index) IngestFile(ctx context.Context, path string) error {
	content, err := afero.ReadFile(i.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	return i.Ingest(ctx, path, string(content))
}

// Query embeds the query text and returns up to k chunks ordered by
// descending cosine similarity.
func (i *Index) Query(ctx context.Context, text string, k int) ([]ScoredChunk, error) {
	ctx, span := tracer.Start(ctx, "query index")
	defer span.End()

	i.mu.RLock()
	chunks := i.chunks
	i.mu.RUnlock()

	if len(chunks) == 0 {
		return nil, ErrEmptyIndex
	}

	embeddings, err := i.embedder.Embed(ctx, []string{text})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(embeddings))
	}
	queryEmbedding := embeddings[0]

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		scored = append(scored, ScoredChunk{
			Chunk: chunk,
			Score: cosineSimilarity(queryEmbedding, chunk.Embedding),
		})
	}

	sort.Slice(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })

	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Len reports how many chunks are currently stored.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.chunks)
}

func (i *Index) load() error {
	exists, err := afero.Exists(i.fs, i.path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	content, err := afero.ReadFile(i.fs, i.path)
	if err != nil {
		return err
	}

	var chunks []Chunk
	if err := json.Unmarshal(content, &chunks); err != nil {
		return fmt.Errorf("corrupt index file %q: %w", i.path, err)
	}

	i.chunks = chunks
	return nil
}

// persist writes the full chunk list to a temporary file and renames it over
// the index path, so a crash mid-write never corrupts the stored index.
func (i *Index) persist(chunks []Chunk) error {
	content, err := json.Marshal(chunks)
	if err != nil {
		return err
	}

	dir := parentDir(i.path)
	if dir != "" {
		if err := i.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := i.path + ".tmp"
	if err := afero.WriteFile(i.fs, tmpPath, content, 0o644); err != nil {
		return err
	}

	if err := i.fs.Rename(tmpPath, i.path); err != nil {
		_ = i.fs.Remove(tmpPath)
		return err
	}

	return nil
}

func parentDir(path string) string {
	for n := len(path) - 1; n >= 0; n-- {
		if os.IsPathSeparator(path[n]) {
			return path[:n]
		}
	}
	return ""
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		normA += float64(a[n]) * float64(a[n])
		normB += float64(b[n]) * float64(b[n])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
