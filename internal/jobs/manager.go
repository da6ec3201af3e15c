// Package jobs runs and tracks the engine's background operations: index
// rebuilds, async settings updates, bulk document loads.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// Manager executes job functions on a bounded worker pool and keeps their
// lifecycle state queryable by ID.
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	slots    chan struct{} // bounds concurrently running jobs
	stopChan chan struct{}
	wg       sync.WaitGroup
	metrics  *Metrics
}

// NewManager creates a job manager running at most maxWorkers jobs at once.
func NewManager(maxWorkers int) *Manager {
	return &Manager{
		jobs:     make(map[string]*model.Job),
		slots:    make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		metrics:  NewMetrics(),
	}
}

// Start launches the periodic cleanup of finished jobs.
func (m *Manager) Start() {
	log.Printf("Job manager started with %d max workers", cap(m.slots))
	go m.cleanupRoutine()
}

// Stop shuts the manager down after all running jobs finish.
func (m *Manager) Stop() {
	close(m.stopChan)
	m.wg.Wait()
	log.Printf("Job manager stopped")
}

// CreateJob registers a new pending job and returns its ID.
func (m *Manager) CreateJob(jobType model.JobType, indexName string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		IndexName: indexName,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	log.Printf("Created job %s (type: %s) for index '%s'", job.ID, job.Type, job.IndexName)
	return job.ID
}

// GetJob returns a copy of the job with the given ID.
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns copies of all jobs for an index, optionally filtered by
// status.
func (m *Manager) ListJobs(indexName string, status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Job
	for _, job := range m.jobs {
		if job.IndexName != indexName {
			continue
		}
		if status != nil && job.Status != *status {
			continue
		}
		result = append(result, copyJob(job))
	}
	return result
}

// copyJob clones a job so callers never share the tracked instance.
func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	return &jobCopy
}

// ExecuteJob schedules a pending job. It returns immediately; the job waits
// for a free worker slot, runs, and records its outcome. The context handed
// to jobFunc is cancelled when the manager stops.
func (m *Manager) ExecuteJob(jobID string, jobFunc func(ctx context.Context, job *model.Job) error) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		select {
		case m.slots <- struct{}{}:
		case <-m.stopChan:
			m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
			return
		}
		defer func() { <-m.slots }()

		m.markRunning(jobID)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-m.stopChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		startTime := time.Now()
		err := jobFunc(ctx, job)
		executionTime := time.Since(startTime)

		if err != nil {
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
			m.metrics.RecordJobFailed(job.Type)
			log.Printf("Job %s failed after %v: %v", jobID, executionTime, err)
		} else {
			m.updateJobStatus(jobID, model.JobStatusCompleted, "")
			m.metrics.RecordJobCompleted(job.Type, executionTime)
			log.Printf("Job %s completed in %v", jobID, executionTime)
		}
	}()

	return nil
}

// UpdateJobProgress records progress for a running job. Unknown IDs are
// ignored.
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

func (m *Manager) markRunning(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	oldStatus := job.Status
	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	m.metrics.RecordJobStatusChange(oldStatus, job.Status)
}

func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}

	if status == model.JobStatusCompleted || status == model.JobStatusFailed || status == model.JobStatusCancelled {
		now := time.Now()
		job.CompletedAt = &now
	}

	m.metrics.RecordJobStatusChange(oldStatus, status)
}

// cleanupRoutine drops finished jobs older than a day, once per hour.
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs removes finished jobs whose completion is older than maxAge.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0

	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Printf("Cleaned up %d old jobs", cleaned)
	}
}

// GetMetrics returns a snapshot of the job counters.
func (m *Manager) GetMetrics() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// GetSuccessRate returns the fraction of finished jobs that completed
// successfully.
func (m *Manager) GetSuccessRate() float64 {
	return m.metrics.SuccessRate()
}

// GetCurrentWorkload returns the number of pending plus running jobs.
func (m *Manager) GetCurrentWorkload() int64 {
	return m.metrics.CurrentWorkload()
}
