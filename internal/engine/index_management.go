package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/search"
)

// CreateIndex creates a new index with the given settings and persists its
// empty structures.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return errors.NewValidationError("settings", strings.Join(problems, "; "))
	}
	if _, exists := e.indexes[settings.Name]; exists {
		return errors.NewIndexAlreadyExistsError(settings.Name)
	}

	instance, err := NewIndexInstance(settings)
	if err != nil {
		return fmt.Errorf("failed to create new index instance for '%s': %w", settings.Name, err)
	}

	searchService, err := search.NewService(instance.PositionalIndex, instance.BiwordIndex, instance.PhoneticIndex, instance.DocumentStore, instance.settings)
	if err != nil {
		return fmt.Errorf("failed to create search service for new index '%s': %w", settings.Name, err)
	}
	instance.SetSearcher(searchService)

	if err := e.persistUpdatedIndexUnsafe(settings.Name, settings, instance); err != nil {
		return fmt.Errorf("failed to persist new index '%s': %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	log.Printf("Index '%s' created and persisted.", settings.Name)
	return nil
}

// DeleteIndex removes an index from memory and disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return errors.NewIndexNotFoundError(name)
	}

	delete(e.indexes, name)

	indexPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to remove index directory %s: %w", indexPath, err)
	}

	log.Printf("Index '%s' deleted successfully.", name)
	return nil
}

// RenameIndex renames an index, moving its on-disk data to the new
// directory.
func (e *Engine) RenameIndex(oldName, newName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(newName) == "" {
		return errors.NewValidationError("new_name", "new index name cannot be empty")
	}
	if oldName == newName {
		return errors.NewSameNameError(oldName)
	}

	instance, exists := e.indexes[oldName]
	if !exists {
		return errors.NewIndexNotFoundError(oldName)
	}
	if _, exists := e.indexes[newName]; exists {
		return errors.NewIndexAlreadyExistsError(newName)
	}

	// Persist under the new name first so a crash between the two steps
	// leaves a loadable copy.
	newSettings := *instance.settings
	newSettings.Name = newName
	if err := e.persistUpdatedIndexUnsafe(newName, newSettings, instance); err != nil {
		return fmt.Errorf("failed to persist renamed index: %w", err)
	}

	instance.settings.Name = newName
	e.indexes[newName] = instance
	delete(e.indexes, oldName)

	oldIndexPath := filepath.Join(e.dataDir, oldName)
	if err := os.RemoveAll(oldIndexPath); err != nil {
		log.Printf("Warning: Failed to remove old index directory %s: %v", oldIndexPath, err)
	}

	log.Printf("Index renamed from '%s' to '%s' successfully.", oldName, newName)
	return nil
}
