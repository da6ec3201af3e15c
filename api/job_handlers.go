package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/engine"
	internalErrors "github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// validJobStatuses guards the ?status= filter on job listings.
var validJobStatuses = map[model.JobStatus]bool{
	model.JobStatusPending:   true,
	model.JobStatusRunning:   true,
	model.JobStatusCompleted: true,
	model.JobStatusFailed:    true,
	model.JobStatusCancelled: true,
}

// GetJobHandler handles requests to get job status by ID.
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	jobManager, ok := api.engine.(services.JobManager)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Job management not supported by this engine")
		return
	}

	job, err := jobManager.GetJob(jobID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "get job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs for an index, optionally
// filtered by ?status=.
func (api *API) ListJobsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		if !validJobStatuses[status] {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
				"Unknown job status '"+statusParam+"'")
			return
		}
		statusFilter = &status
	}

	jobManager, ok := api.engine.(services.JobManager)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Job management not supported by this engine")
		return
	}

	jobs := jobManager.ListJobs(indexName, statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"index_name": indexName,
		"total":      len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics.
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	engineWithMetrics, ok := api.engine.(*engine.Engine)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Job metrics not supported by this engine")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":          engineWithMetrics.GetJobMetrics(),
		"success_rate":     engineWithMetrics.GetJobSuccessRate(),
		"current_workload": engineWithMetrics.GetCurrentWorkload(),
	})
}
