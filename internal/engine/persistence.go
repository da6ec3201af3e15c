package engine

import (
	stdErrors "errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/index"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/indexing"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/persistence"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/search"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/store"
)

// Each index lives in its own directory under the data dir, one gob file
// per structure. Settings are JSON so the null-versus-empty stop-word
// distinction survives the round trip (and so operators can read them).
const (
	dataDirPerm         = 0750
	settingsFile        = "settings.json"
	positionalIndexFile = "positional_index.gob"
	biwordIndexFile     = "biword_index.gob"
	phoneticIndexFile   = "phonetic_index.gob"
	documentStoreFile   = "document_store.gob"
)

// loadIndexesFromDisk loads every index directory under the data dir.
// Settings are required; any other missing or unreadable structure degrades
// to empty with a warning, and a rebuild can restore it from the document
// store.
func (e *Engine) loadIndexesFromDisk() {
	log.Printf("Loading indexes from disk: %s", e.dataDir)

	if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v. Proceeding without persistence for new indexes if loading fails.", e.dataDir, err)
	}

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		log.Printf("Warning: Failed to read data directory %s: %v. No indexes loaded.", e.dataDir, err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		indexPath := filepath.Join(e.dataDir, indexName)
		log.Printf("Attempting to load index: %s", indexName)

		var settings config.IndexSettings
		settingsPath := filepath.Join(indexPath, settingsFile)
		if err := persistence.LoadJSON(settingsPath, &settings); err != nil {
			log.Printf("Warning: Failed to load settings for index %s from %s: %v. Skipping this index.", indexName, settingsPath, err)
			continue
		}
		if settings.Name != indexName {
			log.Printf("Warning: Index name in settings ('%s') does not match directory name ('%s') for path %s. Skipping this index.", settings.Name, indexName, indexPath)
			continue
		}

		docStore := &store.DocumentStore{}
		loadComponent(filepath.Join(indexPath, documentStoreFile), docStore, indexName, func() {
			docStore.Docs = make(map[uint32]model.Document)
			docStore.ExternalIDtoInternalID = make(map[string]uint32)
		})

		positional := &index.PositionalIndex{}
		loadComponent(filepath.Join(indexPath, positionalIndexFile), positional, indexName, func() {
			positional.Index = make(map[string]index.PostingList)
		})
		// The decoded settings snapshot is stale; relink to the live copy so
		// later settings updates reach the index and its normalizer.
		positional.Settings = &settings

		biword := &index.BiwordIndex{}
		loadComponent(filepath.Join(indexPath, biwordIndexFile), biword, indexName, func() {
			biword.Pairs = make(map[index.Biword][]uint32)
		})

		phonetic := &index.PhoneticIndex{}
		loadComponent(filepath.Join(indexPath, phoneticIndexFile), phonetic, indexName, func() {
			phonetic.Codes = make(map[string][]string)
		})

		indexerService, err := indexing.NewService(positional, biword, phonetic, docStore)
		if err != nil {
			log.Printf("Error creating indexer service for loaded index %s: %v. Skipping.", indexName, err)
			continue
		}

		searchService, err := search.NewService(positional, biword, phonetic, docStore, &settings)
		if err != nil {
			log.Printf("Error creating search service for loaded index %s: %v. Skipping.", indexName, err)
			continue
		}

		instance := &IndexInstance{
			settings:        &settings,
			PositionalIndex: positional,
			BiwordIndex:     biword,
			PhoneticIndex:   phonetic,
			DocumentStore:   docStore,
			indexer:         indexerService,
			searcher:        searchService,
		}

		e.indexes[indexName] = instance
		log.Printf("Successfully loaded index: %s", indexName)
	}
}

// loadComponent loads one gob file into target, calling initEmpty when the
// file is absent or unreadable.
func loadComponent(path string, target interface{}, indexName string, initEmpty func()) {
	err := persistence.LoadGob(path, target)
	switch {
	case err == nil:
	case stdErrors.Is(err, os.ErrNotExist):
		log.Printf("Info: %s not found for index %s. Initializing empty.", path, indexName)
		initEmpty()
	default:
		log.Printf("Warning: Failed to load %s for index %s: %v. Initializing empty.", path, indexName, err)
		initEmpty()
	}
}

// PersistIndexData saves the current state of an index's structures to disk.
// Call it after modifications.
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}

	return e.persistUpdatedIndexUnsafe(indexName, *instance.settings, instance)
}

// persistUpdatedIndexUnsafe writes all of an instance's structures under the
// directory for name. The structures' own GobEncode methods take their read
// locks, so concurrent queries stay consistent; the caller is responsible
// for engine-level locking.
func (e *Engine) persistUpdatedIndexUnsafe(name string, settings config.IndexSettings, instance *IndexInstance) error {
	indexPath := filepath.Join(e.dataDir, name)
	if err := os.MkdirAll(indexPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for index %s: %w", name, err)
	}

	if err := persistence.SaveJSON(filepath.Join(indexPath, settingsFile), settings); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, positionalIndexFile), instance.PositionalIndex); err != nil {
		return fmt.Errorf("failed to save positional index for %s: %w", name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, biwordIndexFile), instance.BiwordIndex); err != nil {
		return fmt.Errorf("failed to save biword index for %s: %w", name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, phoneticIndexFile), instance.PhoneticIndex); err != nil {
		return fmt.Errorf("failed to save phonetic index for %s: %w", name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore); err != nil {
		return fmt.Errorf("failed to save document store for %s: %w", name, err)
	}

	return nil
}
