package projection

import (
	"context"
	"fmt"
	"strings"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// Reader is the read surface of the graph store the projection needs.
type Reader interface {
	Nodes(ctx context.Context, limit int) ([]store.StoredNode, error)
	Triples(ctx context.Context, limit int) ([]store.StoredTriple, error)
}

// DefaultLimit bounds both store queries when the caller passes no
// explicit limit.
const DefaultLimit = 100

// Build reconstructs a renderable graph from the store. Both store
// queries run concurrently and are buffered before merging, so the
// merge order is deterministic: every node from the node query first,
// then the endpoints of every triple. A node appearing in both
// collapses to one entry and the first-seen properties win.
//
// A failing node query fails the projection. A failing triple query
// degrades to a nodes-only graph; connectivity is enhancement, not a
// requirement.
func Build(ctx context.Context, reader Reader, limit int) (common.RenderGraph, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var (
		nodes     []store.StoredNode
		triples   []store.StoredTriple
		tripleErr error
	)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		nodes, err = reader.Nodes(gCtx, limit)
		if err != nil {
			return fmt.Errorf("failed to query nodes: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		triples, tripleErr = reader.Triples(gCtx, limit)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return common.RenderGraph{}, err
	}

	if tripleErr != nil {
		logger.Warn("[Projection] Relationship query failed, rendering nodes only", "err", tripleErr)
		triples = nil
	}

	seen := map[string]struct{}{}
	renderNodes := []common.RenderNode{}
	renderEdges := []common.RenderEdge{}

	addNode := func(node store.StoredNode) {
		if _, ok := seen[node.ID]; ok {
			return
		}
		seen[node.ID] = struct{}{}

		label := inferLabel(node)
		group := groupForNode(node)
		renderNodes = append(renderNodes, common.RenderNode{
			ID:    node.ID,
			Label: label,
			Title: label,
			Group: group,
			Color: colorForGroup(group),
		})
	}

	for _, node := range nodes {
		addNode(node)
	}

	for i, triple := range triples {
		addNode(triple.Source)
		addNode(triple.Target)

		renderEdges = append(renderEdges, common.RenderEdge{
			ID:    fmt.Sprintf("edge-%d", i),
			From:  triple.Source.ID,
			To:    triple.Target.ID,
			Label: edgeLabel(triple),
		})
	}

	return common.RenderGraph{
		Nodes: renderNodes,
		Edges: renderEdges,
		Stats: common.RenderStats{
			NodeCount: len(renderNodes),
			EdgeCount: len(renderEdges),
		},
	}, nil
}

// edgeLabel resolves an edge's display label: the relationship type,
// then the relationship's label property, then a generic default.
func edgeLabel(triple store.StoredTriple) string {
	if t := strings.TrimSpace(triple.RelType); t != "" {
		return t
	}
	if s, ok := triple.RelProperties["label"].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return "RELATES_TO"
}
