package jobs

import (
	"context"
	stdErrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// waitForStatus polls until the job reaches the wanted status or the
// deadline passes.
func waitForStatus(t *testing.T, manager *Manager, jobID string, want model.JobStatus) *model.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := manager.GetJob(jobID)
		if err != nil {
			t.Fatalf("GetJob() error = %v", err)
		}
		if job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := manager.GetJob(jobID)
	t.Fatalf("job %s never reached status %s (last: %s)", jobID, want, job.Status)
	return nil
}

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeRebuildIndex, "test-index", map[string]string{
		"operation": "test",
	})

	if jobID == "" {
		t.Error("Expected non-empty job ID")
	}

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get created job: %v", err)
	}

	if job.Type != model.JobTypeRebuildIndex {
		t.Errorf("Expected job type %s, got %s", model.JobTypeRebuildIndex, job.Type)
	}

	if job.Status != model.JobStatusPending {
		t.Errorf("Expected job status %s, got %s", model.JobStatusPending, job.Status)
	}

	if job.IndexName != "test-index" {
		t.Errorf("Expected index name 'test-index', got %s", job.IndexName)
	}
}

func TestJobManager_GetJob_Unknown(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	_, err := manager.GetJob("no-such-job")
	if err == nil {
		t.Fatal("GetJob(), wantErr, got nil")
	}
	if !stdErrors.Is(err, errors.ErrJobNotFound) {
		t.Errorf("error = %v, want Is(ErrJobNotFound)", err)
	}
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeRebuildIndex, "test-index", nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		manager.UpdateJobProgress(jobID, 50, 100, "halfway")
		manager.UpdateJobProgress(jobID, 100, 100, "done")
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	job := waitForStatus(t, manager, jobID, model.JobStatusCompleted)

	if job.Progress == nil {
		t.Fatal("Expected job progress to be set")
	}
	if job.Progress.Current != 100 || job.Progress.Total != 100 {
		t.Errorf("progress = %d/%d, want 100/100", job.Progress.Current, job.Progress.Total)
	}
	if job.StartedAt == nil || job.CompletedAt == nil {
		t.Error("Expected start and completion timestamps to be set")
	}
}

func TestJobManager_ExecuteJob_Failure(t *testing.T) {
	manager := NewManager(1)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeLoadCorpus, "test-index", nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return fmt.Errorf("corpus directory vanished")
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	job := waitForStatus(t, manager, jobID, model.JobStatusFailed)
	if job.Error != "corpus directory vanished" {
		t.Errorf("Error = %q, want the job function's message", job.Error)
	}
}

func TestJobManager_ExecuteJob_OnlyOncePerJob(t *testing.T) {
	manager := NewManager(1)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeAddDocuments, "test-index", nil)

	noop := func(ctx context.Context, job *model.Job) error { return nil }
	if err := manager.ExecuteJob(jobID, noop); err != nil {
		t.Fatalf("first ExecuteJob() error = %v", err)
	}
	waitForStatus(t, manager, jobID, model.JobStatusCompleted)

	if err := manager.ExecuteJob(jobID, noop); err == nil {
		t.Error("second ExecuteJob(), wantErr for a non-pending job, got nil")
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	manager := NewManager(2)
	defer manager.Stop()

	firstID := manager.CreateJob(model.JobTypeRebuildIndex, "index-a", nil)
	manager.CreateJob(model.JobTypeAddDocuments, "index-b", nil)

	jobsForA := manager.ListJobs("index-a", nil)
	if len(jobsForA) != 1 || jobsForA[0].ID != firstID {
		t.Errorf("ListJobs(index-a) = %d jobs, want exactly the one created for it", len(jobsForA))
	}

	pending := model.JobStatusPending
	if got := manager.ListJobs("index-a", &pending); len(got) != 1 {
		t.Errorf("ListJobs(index-a, pending) = %d jobs, want 1", len(got))
	}

	completed := model.JobStatusCompleted
	if got := manager.ListJobs("index-a", &completed); len(got) != 0 {
		t.Errorf("ListJobs(index-a, completed) = %d jobs, want 0", len(got))
	}
}

func TestJobManager_Metrics(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	okID := manager.CreateJob(model.JobTypeRebuildIndex, "test-index", nil)
	failID := manager.CreateJob(model.JobTypeRebuildIndex, "test-index", nil)

	if err := manager.ExecuteJob(okID, func(ctx context.Context, job *model.Job) error { return nil }); err != nil {
		t.Fatalf("ExecuteJob() error = %v", err)
	}
	if err := manager.ExecuteJob(failID, func(ctx context.Context, job *model.Job) error { return fmt.Errorf("boom") }); err != nil {
		t.Fatalf("ExecuteJob() error = %v", err)
	}
	waitForStatus(t, manager, okID, model.JobStatusCompleted)
	waitForStatus(t, manager, failID, model.JobStatusFailed)

	metrics := manager.GetMetrics()
	if metrics.JobsCreated != 2 {
		t.Errorf("JobsCreated = %d, want 2", metrics.JobsCreated)
	}
	if metrics.JobsCompleted != 1 {
		t.Errorf("JobsCompleted = %d, want 1", metrics.JobsCompleted)
	}
	if metrics.JobsFailed != 1 {
		t.Errorf("JobsFailed = %d, want 1", metrics.JobsFailed)
	}
	if rate := manager.GetSuccessRate(); rate != 0.5 {
		t.Errorf("GetSuccessRate() = %v, want 0.5", rate)
	}
	if metrics.JobsByType[model.JobTypeRebuildIndex] != 2 {
		t.Errorf("JobsByType[rebuild_index] = %d, want 2", metrics.JobsByType[model.JobTypeRebuildIndex])
	}
}

func TestJobManager_CleanupOldJobs(t *testing.T) {
	manager := NewManager(1)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeDeleteDocument, "test-index", nil)
	if err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error { return nil }); err != nil {
		t.Fatalf("ExecuteJob() error = %v", err)
	}
	waitForStatus(t, manager, jobID, model.JobStatusCompleted)

	// A generous max age keeps the fresh job around.
	manager.CleanupOldJobs(time.Hour)
	if _, err := manager.GetJob(jobID); err != nil {
		t.Fatalf("fresh job was cleaned up: %v", err)
	}

	// A negative max age puts the cutoff in the future and sweeps it.
	manager.CleanupOldJobs(-time.Minute)
	if _, err := manager.GetJob(jobID); !stdErrors.Is(err, errors.ErrJobNotFound) {
		t.Errorf("error = %v, want Is(ErrJobNotFound) after cleanup", err)
	}
}
