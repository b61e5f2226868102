package routes

import (
	"net/http"
	"strconv"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/projection"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns a renderable projection of the stored graph.
func GetGraphHandler(c echo.Context) error {
	type errorResponse struct {
		Message string `json:"message"`
	}

	limit := projection.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{
				Message: "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	// The graph store holds a single global graph; the collection
	// parameter scopes vector data only and is accepted here for
	// interface symmetry.
	collection := c.QueryParam("collection")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	renderGraph, err := projection.Build(ctx, app.GraphStore, limit)
	if err != nil {
		logger.Error("Failed to build graph projection", "collection", collection, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Message: "Failed to query graph",
		})
	}

	return c.JSON(http.StatusOK, renderGraph)
}
