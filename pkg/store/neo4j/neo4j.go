package neo4j

import (
	"context"
	"fmt"
	"strings"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Client implements store.GraphStore backed by a Neo4j database. Nodes
// are merged on their normalized id so re-ingesting a source is
// idempotent. Each operation opens its own session; the underlying
// driver pools connections.
type Client struct {
	driver neo4j.DriverWithContext
}

// NewClientParams contains the connection configuration for a Neo4j
// graph store.
type NewClientParams struct {
	URI      string
	Username string
	Password string
}

// NewClient connects to the Neo4j server at the given URI and verifies
// connectivity before returning.
func NewClient(ctx context.Context, params NewClientParams) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Client{driver: driver}, nil
}

// Close releases the underlying driver and its connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

type nodeRow struct {
	id    string
	props map[string]any
}

type relRow struct {
	source string
	target string
	props  map[string]any
}

// Write merges the document's nodes and relationships into the graph
// and returns how many of each the batch carried. Nodes with the same
// id merge their properties; relationships merge on their endpoints
// and type, so a re-ingested document updates in place.
func (c *Client) Write(ctx context.Context, doc common.GraphDocument) (common.IngestCounts, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	counts := common.IngestCounts{}

	nodesByLabel := map[string][]nodeRow{}
	for _, node := range doc.Nodes {
		label := safeIdentifier(node.Type, "Entity")
		props := make(map[string]any, len(node.Properties)+1)
		for k, v := range node.Properties {
			props[k] = v
		}
		nodesByLabel[label] = append(nodesByLabel[label], nodeRow{id: node.ID, props: props})
	}

	for label, rows := range nodesByLabel {
		query := fmt.Sprintf(`
			UNWIND $rows AS row
			MERGE (n:%s {id: row.id})
			SET n += row.props
		`, label)

		params := make([]map[string]any, len(rows))
		for i, row := range rows {
			params[i] = map[string]any{"id": row.id, "props": row.props}
		}

		result, err := session.Run(ctx, query, map[string]any{"rows": params})
		if err != nil {
			return counts, fmt.Errorf("failed to merge nodes: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return counts, fmt.Errorf("failed to merge nodes: %w", err)
		}
		counts.NodesAdded += len(rows)
	}

	relsByType := map[string][]relRow{}
	for _, rel := range doc.Relationships {
		relType := safeIdentifier(rel.Type, "RELATES_TO")
		props := make(map[string]any, len(rel.Properties))
		for k, v := range rel.Properties {
			props[k] = v
		}
		relsByType[relType] = append(relsByType[relType], relRow{
			source: rel.SourceID,
			target: rel.TargetID,
			props:  props,
		})
	}

	for relType, rows := range relsByType {
		query := fmt.Sprintf(`
			UNWIND $rows AS row
			MATCH (a {id: row.source})
			MATCH (b {id: row.target})
			MERGE (a)-[r:%s]->(b)
			SET r += row.props
		`, relType)

		params := make([]map[string]any, len(rows))
		for i, row := range rows {
			params[i] = map[string]any{"source": row.source, "target": row.target, "props": row.props}
		}

		result, err := session.Run(ctx, query, map[string]any{"rows": params})
		if err != nil {
			return counts, fmt.Errorf("failed to merge relationships: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return counts, fmt.Errorf("failed to merge relationships: %w", err)
		}
		counts.RelationshipsAdded += len(rows)
	}

	return counts, nil
}

// Nodes returns up to limit nodes with their element ids, labels and
// full property maps.
func (c *Client) Nodes(ctx context.Context, limit int) ([]store.StoredNode, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (n)
		RETURN elementId(n) AS id, labels(n) AS labels, properties(n) AS props
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}

	nodes := []store.StoredNode{}
	for result.Next(ctx) {
		record := result.Record()
		nodes = append(nodes, store.StoredNode{
			ID:         stringValue(record, "id"),
			Labels:     stringListValue(record, "labels"),
			Properties: mapValue(record, "props"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}
	return nodes, nil
}

// Triples returns up to limit relationships, each with both endpoint
// nodes fully populated.
func (c *Client) Triples(ctx context.Context, limit int) ([]store.StoredTriple, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a)-[r]->(b)
		RETURN elementId(a) AS source_id, labels(a) AS source_labels, properties(a) AS source_props,
		       type(r) AS rel_type, properties(r) AS rel_props,
		       elementId(b) AS target_id, labels(b) AS target_labels, properties(b) AS target_props
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships: %w", err)
	}

	triples := []store.StoredTriple{}
	for result.Next(ctx) {
		record := result.Record()
		triples = append(triples, store.StoredTriple{
			Source: store.StoredNode{
				ID:         stringValue(record, "source_id"),
				Labels:     stringListValue(record, "source_labels"),
				Properties: mapValue(record, "source_props"),
			},
			Target: store.StoredNode{
				ID:         stringValue(record, "target_id"),
				Labels:     stringListValue(record, "target_labels"),
				Properties: mapValue(record, "target_props"),
			},
			RelType:       stringValue(record, "rel_type"),
			RelProperties: mapValue(record, "rel_props"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read relationships: %w", err)
	}
	return triples, nil
}

// CountNodes returns the total number of nodes in the graph.
func (c *Client) CountNodes(ctx context.Context) (int64, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (n) RETURN count(n) AS count`, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	if result.Next(ctx) {
		if v, ok := result.Record().Get("count"); ok {
			if n, ok := v.(int64); ok {
				return n, nil
			}
		}
	}
	if err := result.Err(); err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return 0, nil
}

// Clear removes all nodes and relationships from the graph.
func (c *Client) Clear(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, `MATCH (n) DETACH DELETE n`, nil); err != nil {
		return fmt.Errorf("failed to clear graph: %w", err)
	}
	return nil
}

// safeIdentifier guards label and relationship type interpolation into
// cypher. Types are sanitized upstream; anything that slips through is
// reduced to word characters here.
func safeIdentifier(s string, fallback string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return fallback
	}
	return out
}

func stringValue(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func stringListValue(record *neo4j.Record, key string) []string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mapValue(record *neo4j.Record, key string) map[string]any {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return map[string]any{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}
