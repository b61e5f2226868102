package store

import (
	"context"

	"github.com/docugraph/backend/pkg/common"
)

// GraphStore defines the interface for persisting and querying the
// knowledge graph. Nodes are identified by their normalized id;
// writing the same id twice merges properties instead of duplicating
// the node.
type GraphStore interface {
	Write(ctx context.Context, doc common.GraphDocument) (common.IngestCounts, error)

	Nodes(ctx context.Context, limit int) ([]StoredNode, error)
	Triples(ctx context.Context, limit int) ([]StoredTriple, error)

	CountNodes(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

// VectorStore defines the interface for persisting chunk embeddings
// alongside the graph, keyed by collection, source and chunk sequence.
type VectorStore interface {
	Upsert(ctx context.Context, item VectorItem) error
	DeleteCollection(ctx context.Context, collection string) (int64, error)
}

// StoredNode is one node as returned by graph queries. ID is the
// store's opaque element id, stable within one query response. Labels
// carries the node's type labels; Properties its full property map.
type StoredNode struct {
	ID         string
	Labels     []string
	Properties map[string]any
}

// StoredTriple is one relationship with both endpoint nodes as
// returned by graph queries.
type StoredTriple struct {
	Source        StoredNode
	Target        StoredNode
	RelType       string
	RelProperties map[string]any
}

// VectorItem is one chunk embedding to persist.
type VectorItem struct {
	Collection string
	SourceID   string
	Sequence   int
	Text       string
	Embedding  []float32
}
