// Package api exposes the retrieval engine over HTTP. Handlers are grouped
// by concern (index, document, search, soundex, job, analytics) and share the
// error envelope defined in error_responses.go.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/analytics"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// API holds dependencies for API handlers, primarily the engine manager and
// the analytics service.
type API struct {
	engine    services.IndexManager
	analytics *analytics.Service
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.IndexManager, analyticsService *analytics.Service) *API {
	return &API{
		engine:    engine,
		analytics: analyticsService,
	}
}

// SetupRoutes defines all the API routes for the retrieval engine.
func SetupRoutes(router *gin.Engine, engine services.IndexManager, analyticsService *analytics.Service) {
	apiHandler := NewAPI(engine, analyticsService)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics route
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Standalone soundex routes (no index required)
	soundexRoutes := router.Group("/soundex")
	{
		soundexRoutes.POST("/encode", apiHandler.SoundexEncodeHandler)   // Encode names
		soundexRoutes.POST("/compare", apiHandler.SoundexCompareHandler) // Compare two names
	}

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
	}

	// Index management routes
	indexRoutes := router.Group("/indexes")
	{
		indexRoutes.POST("", apiHandler.CreateIndexHandler)                              // Create a new index
		indexRoutes.GET("", apiHandler.ListIndexesHandler)                               // List all indexes
		indexRoutes.GET("/:indexName", apiHandler.GetIndexHandler)                       // Get specific index details (settings)
		indexRoutes.DELETE("/:indexName", apiHandler.DeleteIndexHandler)                 // Delete an index
		indexRoutes.PATCH("/:indexName/settings", apiHandler.UpdateIndexSettingsHandler) // Update index settings
		indexRoutes.POST("/:indexName/rename", apiHandler.RenameIndexHandler)            // Rename an index
		indexRoutes.GET("/:indexName/stats", apiHandler.GetIndexStatsHandler)            // Get index statistics
		indexRoutes.GET("/:indexName/jobs", apiHandler.ListJobsHandler)                  // List jobs for an index

		// Document management routes per index
		docRoutes := indexRoutes.Group("/:indexName/documents")
		{
			docRoutes.POST("", apiHandler.AddDocumentsHandler)                 // Add/Update documents
			docRoutes.GET("", apiHandler.GetDocumentsHandler)                  // List documents with pagination
			docRoutes.DELETE("", apiHandler.DeleteAllDocumentsHandler)         // Delete all documents
			docRoutes.POST("/corpus", apiHandler.LoadCorpusHandler)            // Bulk load from a directory or SQLite file
			docRoutes.GET("/:documentId", apiHandler.GetDocumentHandler)       // Get specific document
			docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler) // Delete specific document
		}

		// Search routes per index, one per operation
		searchRoutes := indexRoutes.Group("/:indexName/_search")
		{
			searchRoutes.POST("/phrase", apiHandler.PhraseSearchHandler)
			searchRoutes.POST("/proximity", apiHandler.ProximitySearchHandler)
			searchRoutes.POST("/boolean", apiHandler.BooleanSearchHandler)
			searchRoutes.POST("/phonetic", apiHandler.PhoneticSearchHandler)
		}
		indexRoutes.POST("/:indexName/_msearch", apiHandler.MultiSearchHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-retrieval-engine",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
