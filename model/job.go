package model

import (
	"time"
)

// JobStatus is the lifecycle state of a background job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobType names the kinds of background work the engine runs asynchronously.
type JobType string

const (
	JobTypeCreateIndex    JobType = "create_index"
	JobTypeDeleteIndex    JobType = "delete_index"
	JobTypeRenameIndex    JobType = "rename_index"
	JobTypeRebuildIndex   JobType = "rebuild_index"
	JobTypeUpdateSettings JobType = "update_settings"
	JobTypeAddDocuments   JobType = "add_documents"
	JobTypeDeleteAllDocs  JobType = "delete_all_docs"
	JobTypeDeleteDocument JobType = "delete_document"
	JobTypeLoadCorpus     JobType = "load_corpus"
)

// Job tracks one long-running background operation against an index.
type Job struct {
	ID          string            `json:"id"`
	Type        JobType           `json:"type"`
	Status      JobStatus         `json:"status"`
	IndexName   string            `json:"index_name"`
	Progress    *JobProgress      `json:"progress,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// JobProgress reports how far a running job has advanced.
type JobProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// GetProgressPercentage returns the progress as a percentage (0-100).
func (jp *JobProgress) GetProgressPercentage() float64 {
	if jp.Total == 0 {
		return 0
	}
	return float64(jp.Current) / float64(jp.Total) * 100
}
