package indexer

import (
	"context"
	"sync"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// IndexChunksParams configures one indexing run.
type IndexChunksParams struct {
	Chunks     []common.Chunk
	Collection string
	Parallel   int
}

// IndexChunks embeds every chunk and upserts it into the vector store
// under the given collection. Embedding and upsert failures are logged
// per chunk and do not affect the other chunks. Returns how many
// chunks were indexed successfully.
func IndexChunks(
	ctx context.Context,
	params IndexChunksParams,
	embedder ai.Embedder,
	vectorStore store.VectorStore,
) int {
	parallel := params.Parallel
	if parallel <= 0 {
		parallel = 3
	}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	mutex := sync.Mutex{}

	indexed := 0
	for _, chunk := range params.Chunks {
		c := chunk
		eg.Go(func() error {
			embedding, err := embedder.GenerateEmbedding(gCtx, []byte(c.Text))
			if err != nil {
				logger.Error("[Indexer] Chunk embedding failed, skipping",
					"source_id", c.SourceID, "sequence", c.Sequence, "err", err)
				return nil
			}

			err = vectorStore.Upsert(gCtx, store.VectorItem{
				Collection: params.Collection,
				SourceID:   c.SourceID,
				Sequence:   c.Sequence,
				Text:       c.Text,
				Embedding:  embedding,
			})
			if err != nil {
				logger.Error("[Indexer] Chunk upsert failed, skipping",
					"source_id", c.SourceID, "sequence", c.Sequence, "err", err)
				return nil
			}

			mutex.Lock()
			indexed++
			mutex.Unlock()
			return nil
		})
	}

	// Workers never return errors, Wait only drains them.
	_ = eg.Wait()

	return indexed
}
