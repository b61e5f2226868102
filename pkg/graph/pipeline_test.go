package graph

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/store"
)

type fakeExtractor struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	failSeq  map[int]bool
}

func (f *fakeExtractor) Extract(ctx context.Context, chunk common.Chunk, opts ...ai.GenerateOption) (common.RawGraphRecord, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	fail := f.failSeq[chunk.Sequence]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if fail {
		return common.RawGraphRecord{}, fmt.Errorf("extraction failed for sequence %d", chunk.Sequence)
	}

	localID := fmt.Sprintf("entity-%d", chunk.Sequence)
	return common.RawGraphRecord{
		Nodes: []common.RawNode{
			{LocalID: localID, Type: "CONCEPT", Properties: map[string]string{}},
		},
	}, nil
}

type fakeGraphStore struct {
	mu       sync.Mutex
	written  []common.GraphDocument
	cleared  int
	clearErr error
	writeErr map[string]error
}

func (f *fakeGraphStore) Write(ctx context.Context, doc common.GraphDocument) (common.IngestCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(doc.Nodes) > 0 {
		if err, ok := f.writeErr[doc.Nodes[0].ID]; ok {
			return common.IngestCounts{}, err
		}
	}
	f.written = append(f.written, doc)
	return common.IngestCounts{
		NodesAdded:         len(doc.Nodes),
		RelationshipsAdded: len(doc.Relationships),
	}, nil
}

func (f *fakeGraphStore) Nodes(ctx context.Context, limit int) ([]store.StoredNode, error) {
	return nil, nil
}

func (f *fakeGraphStore) Triples(ctx context.Context, limit int) ([]store.StoredTriple, error) {
	return nil, nil
}

func (f *fakeGraphStore) CountNodes(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeGraphStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return f.clearErr
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

func TestProcessChunksAggregatesCounts(t *testing.T) {
	extractor := &fakeExtractor{failSeq: map[int]bool{}}
	graphStore := &fakeGraphStore{}
	client := NewGraphClient(NewGraphClientParams{ParallelChunks: 3, MaxRetries: 1})

	counts, err := client.ProcessChunks(context.Background(), ProcessChunksParams{
		Chunks: makeChunks(10),
	}, extractor, graphStore)
	if err != nil {
		t.Fatalf("ProcessChunks() error = %v", err)
	}

	if counts.NodesAdded != 10 {
		t.Errorf("NodesAdded = %d, want 10", counts.NodesAdded)
	}
	if len(graphStore.written) != 10 {
		t.Errorf("store writes = %d, want 10", len(graphStore.written))
	}
}

func TestProcessChunksRespectsConcurrencyLimit(t *testing.T) {
	extractor := &fakeExtractor{failSeq: map[int]bool{}}
	graphStore := &fakeGraphStore{}
	client := NewGraphClient(NewGraphClientParams{ParallelChunks: 3, MaxRetries: 1})

	_, err := client.ProcessChunks(context.Background(), ProcessChunksParams{
		Chunks: makeChunks(20),
	}, extractor, graphStore)
	if err != nil {
		t.Fatalf("ProcessChunks() error = %v", err)
	}

	if extractor.maxSeen > 3 {
		t.Errorf("max in-flight extractions = %d, want <= 3", extractor.maxSeen)
	}
}

func TestProcessChunksIsolatesChunkFailures(t *testing.T) {
	extractor := &fakeExtractor{failSeq: map[int]bool{4: true}}
	graphStore := &fakeGraphStore{}
	client := NewGraphClient(NewGraphClientParams{ParallelChunks: 3, MaxRetries: 2})

	counts, err := client.ProcessChunks(context.Background(), ProcessChunksParams{
		Chunks: makeChunks(10),
	}, extractor, graphStore)
	if err != nil {
		t.Fatalf("ProcessChunks() error = %v", err)
	}

	if counts.NodesAdded != 9 {
		t.Errorf("NodesAdded = %d, want 9", counts.NodesAdded)
	}
}

func TestProcessChunksIsolatesWriteFailures(t *testing.T) {
	extractor := &fakeExtractor{failSeq: map[int]bool{}}
	graphStore := &fakeGraphStore{
		writeErr: map[string]error{"entity-2": fmt.Errorf("write refused")},
	}
	client := NewGraphClient(NewGraphClientParams{ParallelChunks: 2, MaxRetries: 1})

	counts, err := client.ProcessChunks(context.Background(), ProcessChunksParams{
		Chunks: makeChunks(5),
	}, extractor, graphStore)
	if err != nil {
		t.Fatalf("ProcessChunks() error = %v", err)
	}

	if counts.NodesAdded != 4 {
		t.Errorf("NodesAdded = %d, want 4", counts.NodesAdded)
	}
}

func TestProcessChunksClearFirst(t *testing.T) {
	extractor := &fakeExtractor{failSeq: map[int]bool{}}
	graphStore := &fakeGraphStore{}
	client := NewGraphClient(NewGraphClientParams{ParallelChunks: 1, MaxRetries: 1})

	_, err := client.ProcessChunks(context.Background(), ProcessChunksParams{
		Chunks:     makeChunks(2),
		ClearFirst: true,
	}, extractor, graphStore)
	if err != nil {
		t.Fatalf("ProcessChunks() error = %v", err)
	}

	if graphStore.cleared != 1 {
		t.Errorf("Clear() calls = %d, want 1", graphStore.cleared)
	}
}

func TestProcessChunksClearFailureDoesNotAbort(t *testing.T) {
	extractor := &fakeExtractor{failSeq: map[int]bool{}}
	graphStore := &fakeGraphStore{clearErr: fmt.Errorf("database busy")}
	client := NewGraphClient(NewGraphClientParams{ParallelChunks: 1, MaxRetries: 1})

	counts, err := client.ProcessChunks(context.Background(), ProcessChunksParams{
		Chunks:     makeChunks(3),
		ClearFirst: true,
	}, extractor, graphStore)
	if err != nil {
		t.Fatalf("ProcessChunks() error = %v", err)
	}

	if counts.NodesAdded != 3 {
		t.Errorf("NodesAdded = %d, want 3", counts.NodesAdded)
	}
}
