package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/corpus"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// CreateIndexAsync creates a new index in the background and returns the job
// ID to poll. Validation failures and name collisions are reported
// immediately rather than through the job.
func (e *Engine) CreateIndexAsync(settings config.IndexSettings) (string, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return "", errors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	e.mu.RLock()
	_, exists := e.indexes[settings.Name]
	e.mu.RUnlock()
	if exists {
		return "", errors.NewIndexAlreadyExistsError(settings.Name)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeCreateIndex, settings.Name, map[string]string{
		"operation": "create_index",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.CreateIndex(settings)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start create index job: %w", err)
	}
	return jobID, nil
}

// DeleteIndexAsync removes an index in the background and returns the job ID
// to poll.
func (e *Engine) DeleteIndexAsync(indexName string) (string, error) {
	if _, err := e.GetIndex(indexName); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeDeleteIndex, indexName, map[string]string{
		"operation": "delete_index",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.DeleteIndex(indexName)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start delete index job: %w", err)
	}
	return jobID, nil
}

// RenameIndexAsync renames an index in the background and returns the job ID
// to poll. Name validation happens immediately.
func (e *Engine) RenameIndexAsync(oldName, newName string) (string, error) {
	if strings.TrimSpace(newName) == "" {
		return "", errors.NewValidationError("new_name", "new index name cannot be empty")
	}
	if oldName == newName {
		return "", errors.NewSameNameError(oldName)
	}

	e.mu.RLock()
	_, sourceExists := e.indexes[oldName]
	_, targetExists := e.indexes[newName]
	e.mu.RUnlock()
	if !sourceExists {
		return "", errors.NewIndexNotFoundError(oldName)
	}
	if targetExists {
		return "", errors.NewIndexAlreadyExistsError(newName)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeRenameIndex, oldName, map[string]string{
		"operation": "rename_index",
		"new_name":  newName,
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.RenameIndex(oldName, newName)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start rename index job: %w", err)
	}
	return jobID, nil
}

// AddDocumentsAsync indexes documents in the background and returns the job
// ID to poll.
func (e *Engine) AddDocumentsAsync(indexName string, docs []model.Document) (string, error) {
	if _, err := e.GetIndex(indexName); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeAddDocuments, indexName, map[string]string{
		"operation":      "add_documents",
		"document_count": fmt.Sprintf("%d", len(docs)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeAddDocumentsJob(ctx, indexName, docs, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start add documents job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeAddDocumentsJob(_ context.Context, indexName string, docs []model.Document, jobID string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}

	e.jobManager.UpdateJobProgress(jobID, 0, len(docs), "Indexing documents")
	if err := instance.AddDocuments(docs); err != nil {
		return fmt.Errorf("failed to add documents to index '%s': %w", indexName, err)
	}
	e.jobManager.UpdateJobProgress(jobID, len(docs), len(docs), "Documents indexed")

	if err := e.PersistIndexData(indexName); err != nil {
		return fmt.Errorf("failed to persist updated index '%s': %w", indexName, err)
	}

	log.Printf("Added %d documents to index '%s' (async).", len(docs), indexName)
	return nil
}

// DeleteAllDocumentsAsync clears an index in the background and returns the
// job ID to poll.
func (e *Engine) DeleteAllDocumentsAsync(indexName string) (string, error) {
	if _, err := e.GetIndex(indexName); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeDeleteAllDocs, indexName, map[string]string{
		"operation": "delete_all_documents",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeDeleteAllDocumentsJob(ctx, indexName)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start delete all documents job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeDeleteAllDocumentsJob(_ context.Context, indexName string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}

	if err := instance.DeleteAllDocuments(); err != nil {
		return fmt.Errorf("failed to delete all documents from index '%s': %w", indexName, err)
	}

	if err := e.PersistIndexData(indexName); err != nil {
		return fmt.Errorf("failed to persist updated index '%s': %w", indexName, err)
	}

	log.Printf("Deleted all documents from index '%s' (async).", indexName)
	return nil
}

// DeleteDocumentAsync removes one document in the background and returns the
// job ID to poll. Unknown indexes and documents are reported immediately
// rather than through the job.
func (e *Engine) DeleteDocumentAsync(indexName, documentID string) (string, error) {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()
	if !exists {
		return "", errors.NewIndexNotFoundError(indexName)
	}
	if _, err := instance.GetDocument(documentID); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeDeleteDocument, indexName, map[string]string{
		"operation":   "delete_document",
		"document_id": documentID,
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeDeleteDocumentJob(ctx, indexName, documentID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start delete document job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeDeleteDocumentJob(_ context.Context, indexName, documentID string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}

	if err := instance.DeleteDocument(documentID); err != nil {
		return fmt.Errorf("failed to delete document '%s' from index '%s': %w", documentID, indexName, err)
	}

	if err := e.PersistIndexData(indexName); err != nil {
		return fmt.Errorf("failed to persist updated index '%s': %w", indexName, err)
	}

	log.Printf("Deleted document '%s' from index '%s' (async).", documentID, indexName)
	return nil
}

// LoadCorpusDirAsync loads every .txt file under dirPath into an index in
// the background and returns the job ID to poll.
func (e *Engine) LoadCorpusDirAsync(indexName, dirPath string) (string, error) {
	return e.loadCorpusAsync(indexName, "dir", dirPath, func(ctx context.Context) ([]model.Document, error) {
		return corpus.LoadDir(ctx, dirPath)
	})
}

// LoadCorpusSQLiteAsync loads a table of a SQLite database into an index in
// the background and returns the job ID to poll. An empty table selects the
// default documents table.
func (e *Engine) LoadCorpusSQLiteAsync(indexName, dbPath, table string) (string, error) {
	return e.loadCorpusAsync(indexName, "sqlite", dbPath, func(ctx context.Context) ([]model.Document, error) {
		return corpus.LoadSQLite(ctx, dbPath, table)
	})
}

func (e *Engine) loadCorpusAsync(indexName, format, source string, load func(ctx context.Context) ([]model.Document, error)) (string, error) {
	if _, err := e.GetIndex(indexName); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeLoadCorpus, indexName, map[string]string{
		"operation": "load_corpus",
		"format":    format,
		"source":    source,
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		e.jobManager.UpdateJobProgress(jobID, 0, 0, "Loading corpus from "+source)
		docs, err := load(ctx)
		if err != nil {
			return err
		}
		return e.executeAddDocumentsJob(ctx, indexName, docs, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start corpus load job: %w", err)
	}
	return jobID, nil
}
