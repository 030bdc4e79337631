package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// keywordEmbedder maps texts onto a two-dimensional space so similarity in
// tests is fully deterministic.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	fail := e.fail
	e.mu.Unlock()

	if fail {
		return nil, errors.New("embedding backend unavailable")
	}

	embeddings := make([][]float32, len(texts))
	for n, text := range texts {
		switch {
		case strings.Contains(text, "robot"):
			embeddings[n] = []float32{1, 0}
		case strings.Contains(text, "banana"):
			embeddings[n] = []float32{0, 1}
		default:
			embeddings[n] = []float32{0.5, 0.5}
		}
	}
	return embeddings, nil
}

func newTestIndex(t *testing.T, fs afero.Fs) (*Index, *keywordEmbedder) {
	t.Helper()

	embedder := &keywordEmbedder{}
	index, err := NewIndex(embedder, WithFs(fs), WithPath("index/test.json"))
	if err != nil {
		t.Fatalf("expected index to build, got %v", err)
	}
	return index, embedder
}

func TestQueryBeforeIngestReturnsEmptyIndexError(t *testing.T) {
	index, _ := newTestIndex(t, afero.NewMemMapFs())

	_, err := index.Query(context.Background(), "anything", 3)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Fatalf("expected empty index error, got %v", err)
	}
}

func TestIngestThenQueryRecallsBestChunk(t *testing.T) {
	index, _ := newTestIndex(t, afero.NewMemMapFs())

	if err := index.Ingest(context.Background(), "doc-1", "the robot is named ruby"); err != nil {
		t.Fatalf("expected ingest to succeed, got %v", err)
	}
	if err := index.Ingest(context.Background(), "doc-2", "a banana is a fruit"); err != nil {
		t.Fatalf("expected ingest to succeed, got %v", err)
	}

	scored, err := index.Query(context.Background(), "tell me about the robot", 1)
	if err != nil {
		t.Fatalf("expected query to succeed, got %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("expected 1 result, got %d", len(scored))
	}
	if scored[0].SourceID != "doc-1" {
		t.Fatalf("expected the robot chunk to rank first, got %q", scored[0].SourceID)
	}
	if scored[0].Score <= 0.9 {
		t.Fatalf("expected a high similarity score, got %f", scored[0].Score)
	}
}

func TestIngestFailureLeavesIndexUnchanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	index, embedder := newTestIndex(t, fs)

	if err := index.Ingest(context.Background(), "doc-1", "the robot is named ruby"); err != nil {
		t.Fatalf("expected ingest to succeed, got %v", err)
	}
	before := index.Len()

	embedder.fail = true
	err := index.Ingest(context.Background(), "doc-2", "a banana is a fruit")
	if err == nil {
		t.Fatalf("expected ingest to fail when embedding fails")
	}

	if index.Len() != before {
		t.Fatalf("expected index unchanged after failed ingest, got %d chunks", index.Len())
	}

	// The persisted file must match the in-memory state.
	embedder.fail = false
	reloaded, err := NewIndex(embedder, WithFs(fs), WithPath("index/test.json"))
	if err != nil {
		t.Fatalf("expected reload to succeed, got %v", err)
	}
	if reloaded.Len() != before {
		t.Fatalf("expected %d persisted chunks, got %d", before, reloaded.Len())
	}
}

func TestIndexPersistsAcrossReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	index, embedder := newTestIndex(t, fs)

	if err := index.Ingest(context.Background(), "doc-1", "the robot is named ruby"); err != nil {
		t.Fatalf("expected ingest to succeed, got %v", err)
	}

	reloaded, err := NewIndex(embedder, WithFs(fs), WithPath("index/test.json"))
	if err != nil {
		t.Fatalf("expected reload to succeed, got %v", err)
	}

	scored, err := reloaded.Query(context.Background(), "robot", 1)
	if err != nil {
		t.Fatalf("expected query on reloaded index to succeed, got %v", err)
	}
	if scored[0].SourceID != "doc-1" {
		t.Fatalf("expected reloaded chunk to be queryable, got %q", scored[0].SourceID)
	}
}

func TestIngestFileUsesPathAsSourceID(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "docs/manual.txt", []byte("the robot is named ruby"), 0o644); err != nil {
		t.Fatalf("expected test file write to succeed, got %v", err)
	}

	index, _ := newTestIndex(t, fs)
	if err := index.IngestFile(context.Background(), "docs/manual.txt"); err != nil {
		t.Fatalf("expected file ingest to succeed, got %v", err)
	}

	scored, err := index.Query(context.Background(), "robot", 1)
	if err != nil {
		t.Fatalf("expected query to succeed, got %v", err)
	}
	if scored[0].SourceID != "docs/manual.txt" {
		t.Fatalf("expected the file path as source id, got %q", scored[0].SourceID)
	}
}

func TestConcurrentIngestAndQuery(t *testing.T) {
	index, _ := newTestIndex(t, afero.NewMemMapFs())

	if err := index.Ingest(context.Background(), "seed", "the robot is named ruby"); err != nil {
		t.Fatalf("expected seed ingest to succeed, got %v", err)
	}

	var wg sync.WaitGroup
	for n := 0; n < 4; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := index.Ingest(context.Background(), "doc", "a banana is a fruit"); err != nil {
				t.Errorf("expected ingest to succeed, got %v", err)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := index.Query(context.Background(), "robot", 2); err != nil {
				t.Errorf("expected query to succeed, got %v", err)
			}
		}()
	}
	wg.Wait()

	if index.Len() != 5 {
		t.Fatalf("expected 5 chunks after concurrent ingests, got %d", index.Len())
	}
}

func TestSplitterOverlapsChunks(t *testing.T) {
	s := splitter{chunkSize: 10, chunkOverlap: 3}

	pieces := s.Split("abcdefghijklmnopqrst")
	if len(pieces) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(pieces))
	}
	if pieces[0].text != "abcdefghij" {
		t.Fatalf("expected first chunk of 10 runes, got %q", pieces[0].text)
	}
	if pieces[1].offset != 7 {
		t.Fatalf("expected second chunk to start at overlap offset 7, got %d", pieces[1].offset)
	}
	if !strings.HasPrefix(pieces[1].text, "hij") {
		t.Fatalf("expected 3 runes of overlap, got %q", pieces[1].text)
	}
}
