package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/soundex"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
	"github.com/google/uuid"
)

// PhoneticSearch returns the documents containing any indexed term whose
// soundex code equals the code of the queried name, listing the matched
// vocabulary terms per document. The index must have the phonetic structure
// enabled in its settings.
func (s *Service) PhoneticSearch(query services.PhoneticQuery) (services.PhoneticResult, error) {
	startTime := time.Now()

	if strings.TrimSpace(query.Name) == "" {
		return services.PhoneticResult{}, errors.NewInvalidQueryError("phonetic search needs a name")
	}
	if !s.settings.Phonetic {
		return services.PhoneticResult{}, errors.NewInvalidQueryError(fmt.Sprintf("phonetic search is not enabled for index '%s'", s.settings.Name))
	}

	code := soundex.Encode(query.Name)

	s.rlockAll()
	defer s.runlockAll()

	// Codes map to vocabulary terms; the positional index then supplies the
	// documents. A name with no letters encodes to "" and matches nothing.
	matchedTermsByDoc := make(map[uint32][]string)
	if code != "" {
		for _, term := range s.phoneticIndex.Codes[code] {
			for _, entry := range s.positionalIndex.Index[term] {
				matchedTermsByDoc[entry.DocID] = append(matchedTermsByDoc[entry.DocID], term)
			}
		}
	}

	hits := make([]services.PhoneticHit, 0, len(matchedTermsByDoc))
	for docID, terms := range matchedTermsByDoc {
		doc, found := s.documentStore.Docs[docID]
		if !found {
			continue
		}
		sort.Strings(terms)
		hits = append(hits, services.PhoneticHit{DocID: doc.DocID, MatchedTerms: terms})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].DocID < hits[j].DocID })

	return services.PhoneticResult{
		Code:    code,
		Hits:    hits,
		Total:   len(hits),
		Took:    time.Since(startTime).Milliseconds(),
		QueryID: uuid.New().String(),
	}, nil
}
