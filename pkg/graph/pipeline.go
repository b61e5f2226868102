package graph

import (
	"context"
	"sync"

	"github.com/docugraph/backend/internal/util"
	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// ProcessChunksParams configures one pipeline run.
//
// ClearFirst wipes the graph store once before any chunk is dispatched.
// A failed wipe is logged and the run continues against the old data.
type ProcessChunksParams struct {
	Chunks     []common.Chunk
	ClearFirst bool
}

// ProcessChunks extracts a knowledge graph from the given chunks and
// merges it into the graph store. Chunks are processed concurrently up
// to the client's parallelism limit.
//
// A failure in one chunk (extraction, normalization or store write) is
// logged and contributes nothing to the returned counts; it never
// aborts the other chunks. All chunks finish, successfully or not,
// before ProcessChunks returns.
func (g *GraphClient) ProcessChunks(
	ctx context.Context,
	params ProcessChunksParams,
	aiClient ai.Extractor,
	storeClient store.GraphStore,
) (common.IngestCounts, error) {
	if params.ClearFirst {
		if err := storeClient.Clear(ctx); err != nil {
			logger.Warn("[Graph] Failed to clear store, continuing with existing data", "err", err)
		}
	}

	totalChunks := len(params.Chunks)
	logger.Info("[Graph] Processing", "total_chunks", totalChunks, "parallel", g.parallelChunks)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelChunks)
	mutex := sync.Mutex{}

	counts := common.IngestCounts{}

	for _, chunk := range params.Chunks {
		c := chunk
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
			}

			record, err := util.RetryWithContext(gCtx, g.maxRetries, func(rCtx context.Context) (common.RawGraphRecord, error) {
				return aiClient.Extract(rCtx, c)
			})
			if err != nil {
				logger.Error("[Graph] Chunk extraction failed, skipping",
					"source_id", c.SourceID, "sequence", c.Sequence, "err", err)
				return nil
			}

			doc := NormalizeRecord(record)
			if len(doc.Nodes) == 0 && len(doc.Relationships) == 0 {
				return nil
			}

			written, err := storeClient.Write(gCtx, doc)
			if err != nil {
				logger.Error("[Graph] Chunk store write failed, skipping",
					"source_id", c.SourceID, "sequence", c.Sequence, "err", err)
				return nil
			}

			mutex.Lock()
			defer mutex.Unlock()
			counts = counts.Add(written)

			return nil
		})
	}

	// Workers swallow their own errors, so only a context
	// cancellation surfaces here.
	if err := eg.Wait(); err != nil {
		return counts, err
	}
	if err := ctx.Err(); err != nil {
		return counts, err
	}

	logger.Info("[Graph] Processing completed",
		"nodes_added", counts.NodesAdded, "relationships_added", counts.RelationshipsAdded)

	return counts, nil
}
