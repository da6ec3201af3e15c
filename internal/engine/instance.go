package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/index"
	internalErrors "github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/indexing"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/search"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
	"github.com/Dhruv27Mishra/go-retrieval-engine/store"
)

// IndexInstance bundles the structures and services of a single index: the
// positional, biword and phonetic structures, the document store they are
// derived from, and the indexing and search services operating on them.
// It implements services.IndexAccessor.
type IndexInstance struct {
	settings        *config.IndexSettings
	PositionalIndex *index.PositionalIndex
	BiwordIndex     *index.BiwordIndex
	PhoneticIndex   *index.PhoneticIndex
	DocumentStore   *store.DocumentStore
	indexer         *indexing.Service
	searcher        *search.Service
}

// NewIndexInstance creates an instance with empty structures for the given
// settings. The searcher is attached separately via SetSearcher.
func NewIndexInstance(settings config.IndexSettings) (*IndexInstance, error) {
	if settings.Name == "" {
		return nil, fmt.Errorf("index name cannot be empty in settings")
	}

	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
		NextID:                 0,
	}

	positional := &index.PositionalIndex{
		Index:    make(map[string]index.PostingList),
		Settings: &settings,
	}
	biword := &index.BiwordIndex{Pairs: make(map[index.Biword][]uint32)}
	phonetic := &index.PhoneticIndex{Codes: make(map[string][]string)}

	indexerService, err := indexing.NewService(positional, biword, phonetic, docStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}

	return &IndexInstance{
		settings:        &settings,
		PositionalIndex: positional,
		BiwordIndex:     biword,
		PhoneticIndex:   phonetic,
		DocumentStore:   docStore,
		indexer:         indexerService,
		searcher:        nil, // attached by the engine once constructed
	}, nil
}

// AddDocuments delegates to the underlying indexing service.
func (i *IndexInstance) AddDocuments(docs []model.Document) error {
	if i.indexer == nil {
		return fmt.Errorf("indexer service not initialized for index '%s'", i.settings.Name)
	}
	return i.indexer.AddDocuments(docs)
}

// DeleteAllDocuments delegates to the underlying indexing service.
func (i *IndexInstance) DeleteAllDocuments() error {
	if i.indexer == nil {
		return fmt.Errorf("indexer service not initialized for index '%s'", i.settings.Name)
	}
	return i.indexer.DeleteAllDocuments()
}

// DeleteDocument delegates to the underlying indexing service.
func (i *IndexInstance) DeleteDocument(docID string) error {
	if i.indexer == nil {
		return fmt.Errorf("indexer service not initialized for index '%s'", i.settings.Name)
	}
	return i.indexer.DeleteDocument(docID)
}

// RebuildIndexes rebuilds all structures from the document store using the
// current settings.
func (i *IndexInstance) RebuildIndexes() error {
	if i.indexer == nil {
		return fmt.Errorf("indexer service not initialized for index '%s'", i.settings.Name)
	}
	return i.indexer.RebuildIndexes()
}

// PhraseSearch delegates to the underlying search service.
func (i *IndexInstance) PhraseSearch(query services.PhraseQuery) (services.DocListResult, error) {
	if i.searcher == nil {
		return services.DocListResult{}, fmt.Errorf("search service not initialized for index '%s'", i.settings.Name)
	}
	return i.searcher.PhraseSearch(query)
}

// ProximitySearch delegates to the underlying search service.
func (i *IndexInstance) ProximitySearch(query services.ProximityQuery) (services.DocListResult, error) {
	if i.searcher == nil {
		return services.DocListResult{}, fmt.Errorf("search service not initialized for index '%s'", i.settings.Name)
	}
	return i.searcher.ProximitySearch(query)
}

// BooleanSearch delegates to the underlying search service.
func (i *IndexInstance) BooleanSearch(query services.BooleanQuery) (services.BooleanResult, error) {
	if i.searcher == nil {
		return services.BooleanResult{}, fmt.Errorf("search service not initialized for index '%s'", i.settings.Name)
	}
	return i.searcher.BooleanSearch(query)
}

// PhoneticSearch delegates to the underlying search service.
func (i *IndexInstance) PhoneticSearch(query services.PhoneticQuery) (services.PhoneticResult, error) {
	if i.searcher == nil {
		return services.PhoneticResult{}, fmt.Errorf("search service not initialized for index '%s'", i.settings.Name)
	}
	return i.searcher.PhoneticSearch(query)
}

// MultiSearch delegates to the underlying search service.
func (i *IndexInstance) MultiSearch(ctx context.Context, query services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	if i.searcher == nil {
		return nil, fmt.Errorf("search service not initialized for index '%s'", i.settings.Name)
	}
	return i.searcher.MultiSearch(ctx, query)
}

// Settings returns a copy of this index's settings.
func (i *IndexInstance) Settings() config.IndexSettings {
	return *i.settings
}

// Stats reports the current size of each structure. Read locks are taken in
// the same order writers take write locks: positional, biword, phonetic,
// document store.
func (i *IndexInstance) Stats() services.IndexStats {
	i.PositionalIndex.Mu.RLock()
	defer i.PositionalIndex.Mu.RUnlock()
	i.BiwordIndex.Mu.RLock()
	defer i.BiwordIndex.Mu.RUnlock()
	i.PhoneticIndex.Mu.RLock()
	defer i.PhoneticIndex.Mu.RUnlock()
	i.DocumentStore.Mu.RLock()
	defer i.DocumentStore.Mu.RUnlock()

	return services.IndexStats{
		Name:          i.settings.Name,
		DocumentCount: len(i.DocumentStore.Docs),
		TermCount:     len(i.PositionalIndex.Index),
		BiwordCount:   len(i.BiwordIndex.Pairs),
		PhoneticCount: len(i.PhoneticIndex.Codes),
	}
}

// GetDocument returns the stored document with the given external ID.
func (i *IndexInstance) GetDocument(docID string) (model.Document, error) {
	i.DocumentStore.Mu.RLock()
	defer i.DocumentStore.Mu.RUnlock()

	internalID, ok := i.DocumentStore.ExternalIDtoInternalID[docID]
	if !ok {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(docID, i.settings.Name)
	}
	return i.DocumentStore.Docs[internalID], nil
}

// ListDocuments returns one page of stored documents ordered by document ID,
// along with the total number of documents. Page numbering starts at 1.
func (i *IndexInstance) ListDocuments(page, pageSize int) ([]model.Document, int) {
	i.DocumentStore.Mu.RLock()
	defer i.DocumentStore.Mu.RUnlock()

	ids := make([]string, 0, len(i.DocumentStore.ExternalIDtoInternalID))
	for id := range i.DocumentStore.ExternalIDtoInternalID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := len(ids)
	start := (page - 1) * pageSize
	if page < 1 || pageSize < 1 || start >= total {
		return []model.Document{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	docs := make([]model.Document, 0, end-start)
	for _, id := range ids[start:end] {
		docs = append(docs, i.DocumentStore.Docs[i.DocumentStore.ExternalIDtoInternalID[id]])
	}
	return docs, total
}

// SetSearcher attaches the search service. The engine calls this after
// construction so instance creation never depends on the search package
// being ready.
func (i *IndexInstance) SetSearcher(searcher *search.Service) {
	i.searcher = searcher
}
