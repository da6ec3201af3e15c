package jobs

import (
	"sync"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// MetricsSnapshot is a point-in-time copy of the job counters, safe to copy
// and serialize.
type MetricsSnapshot struct {
	JobsCreated          int64                     `json:"jobs_created"`
	JobsCompleted        int64                     `json:"jobs_completed"`
	JobsFailed           int64                     `json:"jobs_failed"`
	TotalExecutionTime   time.Duration             `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration             `json:"average_execution_time_ns"`
	JobsByType           map[model.JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64 `json:"jobs_by_status"`
	LastUpdated          time.Time                 `json:"last_updated"`
}

// Metrics counts job outcomes and execution times.
type Metrics struct {
	mu                   sync.RWMutex
	jobsCreated          int64
	jobsCompleted        int64
	jobsFailed           int64
	totalExecutionTime   time.Duration
	jobsByType           map[model.JobType]int64
	jobsByStatus         map[model.JobStatus]int64
	executionTimesByType map[model.JobType][]time.Duration
	lastUpdated          time.Time
}

// NewMetrics creates an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		jobsByType:           make(map[model.JobType]int64),
		jobsByStatus:         make(map[model.JobStatus]int64),
		executionTimesByType: make(map[model.JobType][]time.Duration),
		lastUpdated:          time.Now(),
	}
}

// RecordJobCreated counts a new pending job.
func (m *Metrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCreated++
	m.jobsByType[jobType]++
	m.jobsByStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange moves one job between status buckets.
func (m *Metrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" {
		m.jobsByStatus[oldStatus]--
		if m.jobsByStatus[oldStatus] < 0 {
			m.jobsByStatus[oldStatus] = 0
		}
	}
	m.jobsByStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted counts a successful run and its execution time.
func (m *Metrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCompleted++
	m.totalExecutionTime += executionTime

	// Keep a bounded window of recent times per type
	m.executionTimesByType[jobType] = append(m.executionTimesByType[jobType], executionTime)
	if len(m.executionTimesByType[jobType]) > 100 {
		m.executionTimesByType[jobType] = m.executionTimesByType[jobType][1:]
	}

	m.lastUpdated = time.Now()
}

// RecordJobFailed counts a failed run.
func (m *Metrics) RecordJobFailed(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsFailed++
	m.lastUpdated = time.Now()
}

// Snapshot returns a deep copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobsByType := make(map[model.JobType]int64, len(m.jobsByType))
	for k, v := range m.jobsByType {
		jobsByType[k] = v
	}
	jobsByStatus := make(map[model.JobStatus]int64, len(m.jobsByStatus))
	for k, v := range m.jobsByStatus {
		jobsByStatus[k] = v
	}

	var average time.Duration
	if m.jobsCompleted > 0 {
		average = m.totalExecutionTime / time.Duration(m.jobsCompleted)
	}

	return MetricsSnapshot{
		JobsCreated:          m.jobsCreated,
		JobsCompleted:        m.jobsCompleted,
		JobsFailed:           m.jobsFailed,
		TotalExecutionTime:   m.totalExecutionTime,
		AverageExecutionTime: average,
		JobsByType:           jobsByType,
		JobsByStatus:         jobsByStatus,
		LastUpdated:          m.lastUpdated,
	}
}

// AverageExecutionTimeByType returns the mean of the recent execution times
// recorded for one job type.
func (m *Metrics) AverageExecutionTimeByType(jobType model.JobType) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	times := m.executionTimesByType[jobType]
	if len(times) == 0 {
		return 0
	}

	var total time.Duration
	for _, t := range times {
		total += t
	}
	return total / time.Duration(len(times))
}

// SuccessRate returns completed / (completed + failed), or 1 when nothing
// has finished yet.
func (m *Metrics) SuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	finished := m.jobsCompleted + m.jobsFailed
	if finished == 0 {
		return 1.0
	}
	return float64(m.jobsCompleted) / float64(finished)
}

// CurrentWorkload returns the number of pending plus running jobs.
func (m *Metrics) CurrentWorkload() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.jobsByStatus[model.JobStatusPending] + m.jobsByStatus[model.JobStatusRunning]
}
