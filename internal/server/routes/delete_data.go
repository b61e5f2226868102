package routes

import (
	"fmt"
	"net/http"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

type deleteResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DeleteDataHandler wipes the vector store collection, the graph, or
// both. Each target reports its own status: deleting an absent vector
// collection or an already empty graph is a warning, not an error, and
// a failure in one target does not stop the other.
func DeleteDataHandler(c echo.Context) error {
	type deleteBody struct {
		Target     string `json:"target" validate:"required,oneof=vector graph both"`
		Collection string `json:"collection"`
	}

	type deleteResponse struct {
		Message string                  `json:"message,omitempty"`
		Results map[string]deleteResult `json:"results,omitempty"`
	}

	data := new(deleteBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request body",
		})
	}

	wantVector := data.Target == "vector" || data.Target == "both"
	wantGraph := data.Target == "graph" || data.Target == "both"

	if wantVector && data.Collection == "" {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "collection is required when deleting vector data",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	results := map[string]deleteResult{}

	if wantVector {
		deleted, err := app.VectorStore.DeleteCollection(ctx, data.Collection)
		switch {
		case err != nil:
			logger.Error("Failed to delete vector collection", "collection", data.Collection, "err", err)
			results["vector"] = deleteResult{
				Status:  "error",
				Message: "Failed to delete vector collection",
			}
		case deleted == 0:
			results["vector"] = deleteResult{
				Status:  "warning",
				Message: fmt.Sprintf("Collection %q contained no data", data.Collection),
			}
		default:
			results["vector"] = deleteResult{
				Status:  "ok",
				Message: fmt.Sprintf("Deleted %d chunks from collection %q", deleted, data.Collection),
			}
		}
	}

	if wantGraph {
		count, err := app.GraphStore.CountNodes(ctx)
		switch {
		case err != nil:
			logger.Error("Failed to count graph nodes", "err", err)
			results["graph"] = deleteResult{
				Status:  "error",
				Message: "Failed to clear graph",
			}
		case count == 0:
			results["graph"] = deleteResult{
				Status:  "warning",
				Message: "Graph contained no data",
			}
		default:
			if err := app.GraphStore.Clear(ctx); err != nil {
				logger.Error("Failed to clear graph", "err", err)
				results["graph"] = deleteResult{
					Status:  "error",
					Message: "Failed to clear graph",
				}
			} else {
				results["graph"] = deleteResult{
					Status:  "ok",
					Message: fmt.Sprintf("Deleted %d nodes", count),
				}
			}
		}
	}

	return c.JSON(http.StatusOK, deleteResponse{Results: results})
}
