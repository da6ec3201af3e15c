package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/indexing"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/search"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// UpdateIndexSettings updates an index's settings, rebuilding the structures
// from the document store when the normalization pipeline changed. Purely
// search-time changes (the default p-norm) skip the rebuild.
func (e *Engine) UpdateIndexSettings(name string, newSettings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[name]
	if !exists {
		return errors.NewIndexNotFoundError(name)
	}

	newSettings, err := e.checkSettingsUpdate(name, newSettings)
	if err != nil {
		return err
	}

	if requiresFullRebuild(*instance.settings, newSettings) {
		return e.updateSettingsAndRebuildLocked(name, instance, newSettings, nil)
	}
	return e.applySearchTimeSettingsLocked(name, instance, newSettings)
}

// UpdateIndexSettingsWithRebuild updates settings and always rebuilds the
// structures from the document store.
func (e *Engine) UpdateIndexSettingsWithRebuild(name string, newSettings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[name]
	if !exists {
		return errors.NewIndexNotFoundError(name)
	}

	newSettings, err := e.checkSettingsUpdate(name, newSettings)
	if err != nil {
		return err
	}

	return e.updateSettingsAndRebuildLocked(name, instance, newSettings, nil)
}

// UpdateIndexSettingsWithAsyncRebuild updates settings in the background and
// returns the job ID to poll. Pipeline changes run as a rebuild job; purely
// search-time changes run as a lighter settings job.
func (e *Engine) UpdateIndexSettingsWithAsyncRebuild(name string, newSettings config.IndexSettings) (string, error) {
	e.mu.RLock()
	instance, exists := e.indexes[name]
	if !exists {
		e.mu.RUnlock()
		return "", errors.NewIndexNotFoundError(name)
	}
	oldSettings := *instance.settings
	e.mu.RUnlock()

	newSettings, err := e.checkSettingsUpdate(name, newSettings)
	if err != nil {
		return "", err
	}

	if requiresFullRebuild(oldSettings, newSettings) {
		jobID := e.jobManager.CreateJob(model.JobTypeRebuildIndex, name, map[string]string{
			"operation": "settings_update_with_rebuild",
		})
		err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
			return e.executeRebuildJob(ctx, name, &newSettings, jobID)
		})
		if err != nil {
			return "", fmt.Errorf("failed to start rebuild job: %w", err)
		}
		return jobID, nil
	}

	jobID := e.jobManager.CreateJob(model.JobTypeUpdateSettings, name, map[string]string{
		"operation": "search_time_settings_update",
	})
	err = e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeSettingsUpdateJob(ctx, name, newSettings)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start settings update job: %w", err)
	}
	return jobID, nil
}

// RebuildIndexesAsync rebuilds an index's structures from its document store
// in the background, keeping the current settings.
func (e *Engine) RebuildIndexesAsync(name string) (string, error) {
	e.mu.RLock()
	_, exists := e.indexes[name]
	e.mu.RUnlock()
	if !exists {
		return "", errors.NewIndexNotFoundError(name)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeRebuildIndex, name, map[string]string{
		"operation": "rebuild_indexes",
	})
	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeRebuildJob(ctx, name, nil, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start rebuild job: %w", err)
	}
	return jobID, nil
}

// checkSettingsUpdate validates an incoming settings update and pins its
// name to the index being updated.
func (e *Engine) checkSettingsUpdate(name string, newSettings config.IndexSettings) (config.IndexSettings, error) {
	if newSettings.Name != "" && newSettings.Name != name {
		return config.IndexSettings{}, errors.NewValidationError("name",
			fmt.Sprintf("cannot change index name from '%s' to '%s' during settings update", name, newSettings.Name))
	}
	newSettings.Name = name
	newSettings.ApplyDefaults()
	if problems := newSettings.Validate(); len(problems) > 0 {
		return config.IndexSettings{}, errors.NewValidationError("settings", strings.Join(problems, "; "))
	}
	return newSettings, nil
}

// requiresFullRebuild reports whether a settings change alters the
// normalization pipeline or the set of maintained structures, which makes
// the persisted postings stale.
func requiresFullRebuild(oldSettings, newSettings config.IndexSettings) bool {
	if oldSettings.Stemmer != newSettings.Stemmer {
		return true
	}
	if oldSettings.MinTokenLength != newSettings.MinTokenLength {
		return true
	}
	if oldSettings.Phonetic != newSettings.Phonetic {
		return true
	}
	if !stopWordsEqual(oldSettings.StopWords, newSettings.StopWords) {
		return true
	}
	return false
}

// stopWordsEqual compares stop-word lists, distinguishing nil (default
// list) from empty (removal disabled).
func stopWordsEqual(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// applySearchTimeSettingsLocked swaps settings and searcher without touching
// the structures. Caller holds e.mu.
func (e *Engine) applySearchTimeSettingsLocked(name string, instance *IndexInstance, newSettings config.IndexSettings) error {
	*instance.settings = newSettings

	searchService, err := search.NewService(instance.PositionalIndex, instance.BiwordIndex, instance.PhoneticIndex, instance.DocumentStore, instance.settings)
	if err != nil {
		return fmt.Errorf("failed to create search service with new settings: %w", err)
	}
	instance.SetSearcher(searchService)

	if err := e.persistUpdatedIndexUnsafe(name, newSettings, instance); err != nil {
		return err
	}
	log.Printf("Settings for index '%s' updated and persisted.", name)
	return nil
}

// updateSettingsAndRebuildLocked applies newSettings, recreates both
// services so their normalizers match, rebuilds all structures from the
// document store, and persists. Caller holds e.mu.
func (e *Engine) updateSettingsAndRebuildLocked(name string, instance *IndexInstance, newSettings config.IndexSettings, progress func(current, total int, message string)) error {
	*instance.settings = newSettings

	// Both services derive their normalizers from the settings at
	// construction, so a pipeline change means fresh services.
	indexerService, err := indexing.NewService(instance.PositionalIndex, instance.BiwordIndex, instance.PhoneticIndex, instance.DocumentStore)
	if err != nil {
		return fmt.Errorf("failed to create indexer service with new settings: %w", err)
	}
	instance.indexer = indexerService

	searchService, err := search.NewService(instance.PositionalIndex, instance.BiwordIndex, instance.PhoneticIndex, instance.DocumentStore, instance.settings)
	if err != nil {
		return fmt.Errorf("failed to create search service with new settings: %w", err)
	}
	instance.SetSearcher(searchService)

	if progress != nil {
		progress(0, 1, "Rebuilding index structures")
	}
	if err := instance.RebuildIndexes(); err != nil {
		return fmt.Errorf("failed to rebuild structures for index '%s': %w", name, err)
	}
	if progress != nil {
		progress(1, 1, "Rebuild complete")
	}

	if err := e.persistUpdatedIndexUnsafe(name, newSettings, instance); err != nil {
		return err
	}
	log.Printf("Index '%s' rebuilt with updated settings and persisted.", name)
	return nil
}

// executeSettingsUpdateJob is the job body for search-time settings updates.
func (e *Engine) executeSettingsUpdateJob(_ context.Context, name string, newSettings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[name]
	if !exists {
		return errors.NewIndexNotFoundError(name)
	}
	return e.applySearchTimeSettingsLocked(name, instance, newSettings)
}

// executeRebuildJob is the job body for full rebuilds. A nil newSettings
// rebuilds under the current settings.
func (e *Engine) executeRebuildJob(_ context.Context, name string, newSettings *config.IndexSettings, jobID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[name]
	if !exists {
		return errors.NewIndexNotFoundError(name)
	}

	settings := *instance.settings
	if newSettings != nil {
		settings = *newSettings
	}

	return e.updateSettingsAndRebuildLocked(name, instance, settings, func(current, total int, message string) {
		e.jobManager.UpdateJobProgress(jobID, current, total, message)
	})
}
