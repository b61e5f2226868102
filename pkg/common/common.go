package common

// Chunk is a bounded slice of a document's text and the unit of
// extraction work. Chunks are ephemeral: they exist for the duration
// of one ingestion run and are never persisted as-is.
type Chunk struct {
	Text     string `json:"text"`
	SourceID string `json:"source_id"`
	Sequence int    `json:"sequence"`
}

// RawNode is a node as returned by the extraction service. LocalID is
// only unique within the extraction result of a single chunk and must
// never be compared across chunks or leaked into rendered payloads.
type RawNode struct {
	LocalID    string            `json:"local_id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// RawRelationship is a directed relationship between two RawNodes of
// the same extraction result, referenced by their chunk-local ids.
type RawRelationship struct {
	SourceLocalID string            `json:"source_local_id"`
	TargetLocalID string            `json:"target_local_id"`
	Type          string            `json:"type"`
	Properties    map[string]string `json:"properties"`
}

// RawGraphRecord is the complete extraction output for one chunk.
// It is normalized immediately after extraction and then discarded.
type RawGraphRecord struct {
	Nodes         []RawNode         `json:"nodes"`
	Relationships []RawRelationship `json:"relationships"`
}

// NormalizedNode is a node canonicalized for storage. Type always
// matches [A-Z0-9_]+ and the name, title, label and caption properties
// all carry the same resolved display name.
type NormalizedNode struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// NormalizedRelationship is a relationship whose endpoint ids refer to
// NormalizedNode ids within the same GraphDocument.
type NormalizedRelationship struct {
	SourceID   string            `json:"source_id"`
	TargetID   string            `json:"target_id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// GraphDocument is the unit of one graph store write: the normalized
// extraction result of a single chunk.
type GraphDocument struct {
	Nodes         []NormalizedNode         `json:"nodes"`
	Relationships []NormalizedRelationship `json:"relationships"`
}

// IngestCounts aggregates how many nodes and relationships an
// ingestion run merged into the graph store. Counts are associative
// sums and independent of chunk completion order.
type IngestCounts struct {
	NodesAdded         int `json:"nodes_added"`
	RelationshipsAdded int `json:"relationships_added"`
}

// Add returns the element-wise sum of two counts.
func (c IngestCounts) Add(other IngestCounts) IngestCounts {
	return IngestCounts{
		NodesAdded:         c.NodesAdded + other.NodesAdded,
		RelationshipsAdded: c.RelationshipsAdded + other.RelationshipsAdded,
	}
}

// RenderNode is a node shaped for graph visualization. ID is the
// store-assigned node id; Label and Title carry the inferred display
// text; Group is the node's first category; Color is a hex color
// derived from the category.
type RenderNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Group string `json:"group"`
	Color string `json:"color"`
}

// RenderEdge is a directed edge shaped for graph visualization. IDs
// are synthesized per projection (edge-<index>) and carry no
// persistent identity.
type RenderEdge struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// RenderStats summarizes a rendered graph.
type RenderStats struct {
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`
}

// RenderGraph is the full projection payload.
type RenderGraph struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`
	Stats RenderStats  `json:"stats"`
}
