package server

import (
	"github.com/docugraph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Ingestion routes
	apiRoutes.POST("/ingest", routes.IngestHandler)

	// Graph projection routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)

	// Data management routes
	apiRoutes.DELETE("/data", routes.DeleteDataHandler)
}
