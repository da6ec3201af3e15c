// Package indexing builds the positional, biword, and phonetic index
// structures for a single index. Structures are immutable once published:
// every mutation rebuilds all of them from the document store and swaps the
// fresh maps in under the write locks.
package indexing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dhruv27Mishra/go-retrieval-engine/index"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/normalizer"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/soundex"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/store"
)

// Service implements the indexing logic for a single index.
// It fulfills the services.Indexer interface.
//
// Lock order everywhere in this package: positional → biword → phonetic →
// document store. The search service acquires read locks in the same order,
// so rebuilds and queries never deadlock.
type Service struct {
	positionalIndex *index.PositionalIndex
	biwordIndex     *index.BiwordIndex
	phoneticIndex   *index.PhoneticIndex
	documentStore   *store.DocumentStore
	normalizer      *normalizer.Normalizer
}

// NewService creates a new indexing Service. The positional index must carry
// the index settings; the normalization pipeline is derived from them once,
// so a settings change means constructing a new Service.
func NewService(positional *index.PositionalIndex, biword *index.BiwordIndex, phonetic *index.PhoneticIndex, docStore *store.DocumentStore) (*Service, error) {
	if positional == nil {
		return nil, fmt.Errorf("positional index cannot be nil")
	}
	if biword == nil {
		return nil, fmt.Errorf("biword index cannot be nil")
	}
	if phonetic == nil {
		return nil, fmt.Errorf("phonetic index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if positional.Settings == nil {
		return nil, fmt.Errorf("positional index settings cannot be nil")
	}

	// Gob leaves empty maps nil on decode; normalize here so every later
	// write can assume initialized maps.
	if positional.Index == nil {
		positional.Index = make(map[string]index.PostingList)
	}
	if biword.Pairs == nil {
		biword.Pairs = make(map[index.Biword][]uint32)
	}
	if phonetic.Codes == nil {
		phonetic.Codes = make(map[string][]string)
	}
	if docStore.Docs == nil {
		docStore.Docs = make(map[uint32]model.Document)
	}
	if docStore.ExternalIDtoInternalID == nil {
		docStore.ExternalIDtoInternalID = make(map[string]uint32)
	}

	return &Service{
		positionalIndex: positional,
		biwordIndex:     biword,
		phoneticIndex:   phonetic,
		documentStore:   docStore,
		normalizer:      normalizer.New(positional.Settings),
	}, nil
}

// AddDocuments stores the given documents and rebuilds the index structures.
// A document whose doc_id already exists is replaced. Any invalid entry
// aborts the whole batch before anything is stored.
func (s *Service) AddDocuments(docs []model.Document) error {
	for i := range docs {
		if strings.TrimSpace(docs[i].DocID) == "" {
			return errors.NewValidationError("doc_id", fmt.Sprintf("document at position %d is missing a doc_id", i))
		}
	}

	s.lockAll()
	defer s.unlockAll()

	for _, doc := range docs {
		internalID, exists := s.documentStore.ExternalIDtoInternalID[doc.DocID]
		if !exists {
			internalID = s.documentStore.NextID
			s.documentStore.NextID++
			s.documentStore.ExternalIDtoInternalID[doc.DocID] = internalID
		}
		s.documentStore.Docs[internalID] = doc
	}

	s.rebuildUnsafe()
	return nil
}

// DeleteAllDocuments removes every document and publishes empty structures.
func (s *Service) DeleteAllDocuments() error {
	s.lockAll()
	defer s.unlockAll()

	s.documentStore.Docs = make(map[uint32]model.Document)
	s.documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	s.documentStore.NextID = 0

	s.rebuildUnsafe()
	return nil
}

// DeleteDocument removes a single document by its external ID and rebuilds.
// Internal IDs are never reused.
func (s *Service) DeleteDocument(docID string) error {
	s.lockAll()
	defer s.unlockAll()

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docID]
	if !exists {
		return errors.NewDocumentNotFoundError(docID, s.positionalIndex.Settings.Name)
	}

	delete(s.documentStore.Docs, internalID)
	delete(s.documentStore.ExternalIDtoInternalID, docID)

	s.rebuildUnsafe()
	return nil
}

// RebuildIndexes rebuilds every index structure from the current document
// store contents. The engine calls this after settings changes and after
// loading persisted data built under different settings.
func (s *Service) RebuildIndexes() error {
	s.lockAll()
	defer s.unlockAll()

	s.rebuildUnsafe()
	return nil
}

func (s *Service) lockAll() {
	s.positionalIndex.Mu.Lock()
	s.biwordIndex.Mu.Lock()
	s.phoneticIndex.Mu.Lock()
	s.documentStore.Mu.Lock()
}

func (s *Service) unlockAll() {
	s.documentStore.Mu.Unlock()
	s.phoneticIndex.Mu.Unlock()
	s.biwordIndex.Mu.Unlock()
	s.positionalIndex.Mu.Unlock()
}

// rebuildUnsafe constructs fresh structures from the full document store and
// swaps them in. Nothing partial is ever visible: the old maps stay in place
// until the final assignments. Callers must hold all write locks.
func (s *Service) rebuildUnsafe() {
	positional := make(map[string]index.PostingList)
	biwords := make(map[index.Biword][]uint32)
	phonetic := make(map[string][]string)

	// Walk documents in internal ID order so posting lists and biword doc
	// lists come out sorted without a second pass.
	internalIDs := make([]uint32, 0, len(s.documentStore.Docs))
	for id := range s.documentStore.Docs {
		internalIDs = append(internalIDs, id)
	}
	sort.Slice(internalIDs, func(i, j int) bool { return internalIDs[i] < internalIDs[j] })

	for _, id := range internalIDs {
		doc := s.documentStore.Docs[id]
		tokens := s.normalizer.Normalize(doc.Text)

		for i, token := range tokens {
			postings := positional[token.Term]
			if n := len(postings); n > 0 && postings[n-1].DocID == id {
				postings[n-1].Positions = append(postings[n-1].Positions, token.Position)
			} else {
				postings = append(postings, index.PostingEntry{DocID: id, Positions: []int{token.Position}})
			}
			positional[token.Term] = postings

			if i > 0 {
				pair := index.Biword{First: tokens[i-1].Term, Second: token.Term}
				list := biwords[pair]
				if n := len(list); n == 0 || list[n-1] != id {
					biwords[pair] = append(list, id)
				}
			}
		}
	}

	if s.positionalIndex.Settings.Phonetic {
		collectPhonetic(positional, phonetic)
	}

	s.positionalIndex.Index = positional
	s.biwordIndex.Pairs = biwords
	s.phoneticIndex.Codes = phonetic
}

// collectPhonetic fills codes with soundex(term) → sorted vocabulary terms.
func collectPhonetic(positional map[string]index.PostingList, codes map[string][]string) {
	for term := range positional {
		code := soundex.Encode(term)
		if code == "" {
			continue // all-digit terms have no phonetic shape
		}
		codes[code] = append(codes[code], term)
	}
	for code := range codes {
		sort.Strings(codes[code])
	}
}
