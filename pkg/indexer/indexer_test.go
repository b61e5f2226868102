package indexer

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/store"
)

type fakeEmbedder struct {
	failOn map[string]bool
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if f.failOn[string(input)] {
		return nil, fmt.Errorf("embedding service unavailable")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeVectorStore struct {
	mu      sync.Mutex
	items   []store.VectorItem
	deleted map[string]int64
	failOn  map[int]bool
}

func (f *fakeVectorStore) Upsert(ctx context.Context, item store.VectorItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[item.Sequence] {
		return fmt.Errorf("upsert refused")
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeVectorStore) DeleteCollection(ctx context.Context, collection string) (int64, error) {
	return f.deleted[collection], nil
}

func makeChunks(n int) []common.Chunk {
	chunks := make([]common.Chunk, n)
	for i := range chunks {
		chunks[i] = common.Chunk{
			Text:     fmt.Sprintf("chunk %d", i),
			SourceID: "doc-1",
			Sequence: i,
		}
	}
	return chunks
}

func TestIndexChunksUpsertsAll(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[string]bool{}}
	vectorStore := &fakeVectorStore{failOn: map[int]bool{}}

	indexed := IndexChunks(context.Background(), IndexChunksParams{
		Chunks:     makeChunks(5),
		Collection: "docs",
		Parallel:   2,
	}, embedder, vectorStore)

	if indexed != 5 {
		t.Errorf("indexed = %d, want 5", indexed)
	}
	if len(vectorStore.items) != 5 {
		t.Fatalf("upserts = %d, want 5", len(vectorStore.items))
	}
	for _, item := range vectorStore.items {
		if item.Collection != "docs" {
			t.Errorf("Collection = %q, want docs", item.Collection)
		}
		if item.SourceID != "doc-1" {
			t.Errorf("SourceID = %q, want doc-1", item.SourceID)
		}
		if len(item.Embedding) == 0 {
			t.Error("embedding missing")
		}
	}
}

func TestIndexChunksIsolatesEmbeddingFailures(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[string]bool{"chunk 1": true}}
	vectorStore := &fakeVectorStore{failOn: map[int]bool{}}

	indexed := IndexChunks(context.Background(), IndexChunksParams{
		Chunks:     makeChunks(4),
		Collection: "docs",
	}, embedder, vectorStore)

	if indexed != 3 {
		t.Errorf("indexed = %d, want 3", indexed)
	}
}

func TestIndexChunksIsolatesUpsertFailures(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[string]bool{}}
	vectorStore := &fakeVectorStore{failOn: map[int]bool{2: true}}

	indexed := IndexChunks(context.Background(), IndexChunksParams{
		Chunks:     makeChunks(4),
		Collection: "docs",
	}, embedder, vectorStore)

	if indexed != 3 {
		t.Errorf("indexed = %d, want 3", indexed)
	}
}
