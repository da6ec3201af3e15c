// Package search implements the query side of an index: phrase, proximity,
// extended boolean, and phonetic lookups against the published structures.
// All operations are pure reads.
package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/index"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/normalizer"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/suggest"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
	"github.com/Dhruv27Mishra/go-retrieval-engine/store"
	"github.com/google/uuid"
)

// Service implements the search logic for a single index.
// It fulfills the services.Searcher interface.
//
// Read locks are taken in the same fixed order the indexing service takes
// write locks (positional → biword → phonetic → document store) and held for
// the whole query, so every query sees one consistent generation of the
// published structures.
type Service struct {
	positionalIndex *index.PositionalIndex
	biwordIndex     *index.BiwordIndex
	phoneticIndex   *index.PhoneticIndex
	documentStore   *store.DocumentStore
	settings        *config.IndexSettings
	normalizer      *normalizer.Normalizer
}

// NewService creates a new search Service. Query terms are canonicalized
// with the same pipeline the indexer used, derived from the settings.
func NewService(positional *index.PositionalIndex, biword *index.BiwordIndex, phonetic *index.PhoneticIndex, docStore *store.DocumentStore, settings *config.IndexSettings) (*Service, error) {
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
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	return &Service{
		positionalIndex: positional,
		biwordIndex:     biword,
		phoneticIndex:   phonetic,
		documentStore:   docStore,
		settings:        settings,
		normalizer:      normalizer.New(settings),
	}, nil
}

const defaultPageSize = 10

func (s *Service) rlockAll() {
	s.positionalIndex.Mu.RLock()
	s.biwordIndex.Mu.RLock()
	s.phoneticIndex.Mu.RLock()
	s.documentStore.Mu.RLock()
}

func (s *Service) runlockAll() {
	s.documentStore.Mu.RUnlock()
	s.phoneticIndex.Mu.RUnlock()
	s.biwordIndex.Mu.RUnlock()
	s.positionalIndex.Mu.RUnlock()
}

// normalizeTerm runs one raw query term through the index pipeline. The
// second return is false when normalization drops the term entirely (stop
// word, short token, nothing but punctuation). Punctuated input can split
// into several tokens; the first surviving one stands for the term.
func (s *Service) normalizeTerm(raw string) (string, bool) {
	tokens := s.normalizer.Normalize(raw)
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[0].Term, true
}

// suggestionsFor collects "did you mean" candidates for every normalized
// query term that has no postings. Absent terms are not errors; the
// suggestions ride along with the (possibly empty) result. Callers must
// hold the read locks.
func (s *Service) suggestionsFor(terms []string) map[string][]string {
	var unknown []string
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		if _, found := s.positionalIndex.Index[term]; !found {
			unknown = append(unknown, term)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	vocabulary := make([]string, 0, len(s.positionalIndex.Index))
	for term := range s.positionalIndex.Index {
		vocabulary = append(vocabulary, term)
	}

	suggestions := make(map[string][]string, len(unknown))
	for _, term := range unknown {
		if matches := suggest.ForTerm(term, vocabulary); len(matches) > 0 {
			suggestions[term] = matches
		}
	}
	if len(suggestions) == 0 {
		return nil
	}
	return suggestions
}

// positionsInDoc returns the recorded positions of a term in one document,
// or nil when the term does not occur there. Posting lists are ordered by
// internal doc ID, so a binary search finds the entry.
func positionsInDoc(postings index.PostingList, docID uint32) []int {
	i := sort.Search(len(postings), func(i int) bool { return postings[i].DocID >= docID })
	if i < len(postings) && postings[i].DocID == docID {
		return postings[i].Positions
	}
	return nil
}

// externalDocIDs maps internal doc IDs to external ones, ascending. Callers
// must hold the document store read lock.
func (s *Service) externalDocIDs(internal []uint32) []string {
	ids := make([]string, 0, len(internal))
	for _, id := range internal {
		if doc, found := s.documentStore.Docs[id]; found {
			ids = append(ids, doc.DocID)
		}
	}
	sort.Strings(ids)
	return ids
}

// intersectSorted intersects two ascending internal doc ID lists with a
// two-pointer walk.
func intersectSorted(a, b []uint32) []uint32 {
	var out []uint32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func newDocListResult(docIDs []string, startTime time.Time, suggestions map[string][]string) services.DocListResult {
	if docIDs == nil {
		docIDs = []string{}
	}
	return services.DocListResult{
		DocIDs:      docIDs,
		Total:       len(docIDs),
		Took:        time.Since(startTime).Milliseconds(),
		QueryID:     uuid.New().String(),
		Suggestions: suggestions,
	}
}
