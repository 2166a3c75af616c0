package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ranking-engine/internal/logging"
	"github.com/gcbaptista/go-ranking-engine/internal/metrics"
	"github.com/gcbaptista/go-ranking-engine/services"
)

// maxRequestBodyBytes bounds document uploads and search bodies.
const maxRequestBodyBytes = 32 << 20

// API holds dependencies for API handlers, primarily the index manager.
type API struct {
	engine services.IndexManager
	logger *slog.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.IndexManager) *API {
	return &API{
		engine: engine,
		logger: logging.WithComponent("api"),
	}
}

// SetupRoutes defines all the API routes of the ranking engine. A nil m
// leaves /metrics unregistered.
func SetupRoutes(router *gin.Engine, engine services.IndexManager, m *metrics.Metrics) {
	apiHandler := NewAPI(engine)

	router.Use(RequestIDMiddleware(), RequestLoggerMiddleware(apiHandler.logger), RequestSizeLimitMiddleware(maxRequestBodyBytes))

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Index management routes
	indexRoutes := router.Group("/indexes")
	{
		indexRoutes.POST("", apiHandler.CreateIndexHandler)                              // Create a new index
		indexRoutes.GET("", apiHandler.ListIndexesHandler)                               // List all indexes
		indexRoutes.GET("/:indexName", apiHandler.GetIndexHandler)                       // Get index settings and stats
		indexRoutes.DELETE("/:indexName", apiHandler.DeleteIndexHandler)                 // Delete an index
		indexRoutes.PATCH("/:indexName/settings", apiHandler.UpdateIndexSettingsHandler) // Update index settings
		indexRoutes.GET("/:indexName/stats", apiHandler.GetIndexStatsHandler)            // Get index statistics

		// Document management routes per index
		docRoutes := indexRoutes.Group("/:indexName/documents")
		{
			docRoutes.PUT("", apiHandler.AddDocumentsHandler)                  // Add/Update documents
			docRoutes.DELETE("", apiHandler.DeleteAllDocumentsHandler)         // Delete all documents
			docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler) // Delete specific document
		}

		// Search routes per index
		indexRoutes.POST("/:indexName/_search", apiHandler.SearchHandler)
		indexRoutes.POST("/:indexName/_multi_search", apiHandler.MultiSearchHandler)
	}
}

// HealthCheckHandler reports that the process is serving and how many
// indexes are open.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"indexes": len(api.engine.ListIndexes()),
	})
}
