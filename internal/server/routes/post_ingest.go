package routes

import (
	"net/http"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/chunker"
	"github.com/docugraph/backend/pkg/graph"
	"github.com/docugraph/backend/pkg/indexer"
	"github.com/docugraph/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IngestHandler chunks a document, indexes the chunks into the vector
// store and extracts a knowledge graph from them.
func IngestHandler(c echo.Context) error {
	type ingestBody struct {
		SourceID     string `json:"source_id" validate:"required"`
		Text         string `json:"text" validate:"required"`
		Collection   string `json:"collection" validate:"required"`
		ChunkSize    int    `json:"chunk_size" validate:"omitempty,gt=0"`
		ChunkOverlap *int   `json:"chunk_overlap" validate:"omitempty,gte=0"`
		Concurrency  int    `json:"concurrency" validate:"omitempty,gt=0"`
		MaxRetries   int    `json:"max_retries" validate:"omitempty,gt=0"`
		ClearGraph   bool   `json:"clear_graph"`
	}

	type ingestResponse struct {
		Status             string `json:"status"`
		Message            string `json:"message,omitempty"`
		NodesAdded         int    `json:"nodes_added"`
		RelationshipsAdded int    `json:"relationships_added"`
		Chunks             int    `json:"chunks"`
	}

	data := new(ingestBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}

	if data.ChunkSize == 0 {
		data.ChunkSize = 1000
	}
	// Zero is a valid overlap, so only an absent field gets the default.
	chunkOverlap := 200
	if data.ChunkOverlap != nil {
		chunkOverlap = *data.ChunkOverlap
	}
	if data.Concurrency == 0 {
		data.Concurrency = 3
	}
	if data.MaxRetries == 0 {
		data.MaxRetries = 3
	}
	if chunkOverlap >= data.ChunkSize {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Status:  "error",
			Message: "chunk_overlap must be smaller than chunk_size",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	runID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Status:  "error",
			Message: "Internal server error",
		})
	}
	logger.Info("Starting ingestion", "run_id", runID,
		"source_id", data.SourceID, "collection", data.Collection)

	chunks, err := chunker.Split(data.Text, data.SourceID, chunker.Config{
		ChunkSize:    data.ChunkSize,
		ChunkOverlap: chunkOverlap,
	})
	if err != nil {
		logger.Error("Failed to chunk document", "run_id", runID, "source_id", data.SourceID, "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Status:  "error",
			Message: "Failed to chunk document",
		})
	}

	indexed := indexer.IndexChunks(ctx, indexer.IndexChunksParams{
		Chunks:     chunks,
		Collection: data.Collection,
		Parallel:   data.Concurrency,
	}, app.AiClient, app.VectorStore)
	if indexed < len(chunks) {
		logger.Warn("Some chunks were not indexed",
			"run_id", runID, "indexed", indexed, "total", len(chunks))
	}

	graphClient := graph.NewGraphClient(graph.NewGraphClientParams{
		ParallelChunks: data.Concurrency,
		MaxRetries:     data.MaxRetries,
	})

	counts, err := graphClient.ProcessChunks(ctx, graph.ProcessChunksParams{
		Chunks:     chunks,
		ClearFirst: data.ClearGraph,
	}, app.AiClient, app.GraphStore)
	if err != nil {
		logger.Error("Failed to build graph", "run_id", runID, "source_id", data.SourceID, "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Status:  "error",
			Message: "Failed to build graph",
		})
	}

	return c.JSON(http.StatusOK, ingestResponse{
		Status:             "ok",
		NodesAdded:         counts.NodesAdded,
		RelationshipsAdded: counts.RelationshipsAdded,
		Chunks:             len(chunks),
	})
}
