// Package engine manages the set of retrieval indexes: their lifecycle,
// their services, their persistence, and the background jobs that rebuild
// them.
package engine

import (
	"sort"
	"sync"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/jobs"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// defaultMaxWorkers bounds how many background jobs run at once.
const defaultMaxWorkers = 4

// Engine manages multiple retrieval indexes. It implements the
// services.IndexManager interface.
type Engine struct {
	mu         sync.RWMutex
	indexes    map[string]*IndexInstance
	dataDir    string
	jobManager *jobs.Manager
}

// NewEngine creates an engine rooted at dataDir and loads any indexes
// already persisted there.
func NewEngine(dataDir string) *Engine {
	eng := &Engine{
		indexes:    make(map[string]*IndexInstance),
		dataDir:    dataDir,
		jobManager: jobs.NewManager(defaultMaxWorkers),
	}
	eng.jobManager.Start()
	eng.loadIndexesFromDisk()
	return eng
}

// Close stops the job manager, waiting for running jobs to finish.
func (e *Engine) Close() {
	e.jobManager.Stop()
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, errors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings returns a copy of the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, errors.NewIndexNotFoundError(name)
	}
	return *instance.settings, nil
}

// ListIndexes returns the names of all loaded indexes, sorted.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetJob returns the background job with the given ID.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns the background jobs for an index, optionally filtered by
// status.
func (e *Engine) ListJobs(indexName string, status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(indexName, status)
}

// GetJobMetrics returns a snapshot of the job counters.
func (e *Engine) GetJobMetrics() jobs.MetricsSnapshot {
	return e.jobManager.GetMetrics()
}

// GetJobSuccessRate returns the fraction of finished jobs that completed.
func (e *Engine) GetJobSuccessRate() float64 {
	return e.jobManager.GetSuccessRate()
}

// GetCurrentWorkload returns the number of pending plus running jobs.
func (e *Engine) GetCurrentWorkload() int64 {
	return e.jobManager.GetCurrentWorkload()
}
