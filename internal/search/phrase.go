package search

import (
	"strings"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/index"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// PhraseSearch returns the documents containing the exact consecutive
// phrase. Two-term phrases come straight from the biword index; longer
// phrases intersect the consecutive biword document lists and verify each
// candidate against the positional index.
func (s *Service) PhraseSearch(query services.PhraseQuery) (services.DocListResult, error) {
	startTime := time.Now()

	rawTerms := query.Terms
	if len(rawTerms) == 0 {
		rawTerms = strings.Fields(query.Query)
	}
	if len(rawTerms) < 2 {
		return services.DocListResult{}, errors.NewInvalidQueryError("a phrase query needs at least two terms")
	}

	tokens := s.normalizer.Normalize(strings.Join(rawTerms, " "))
	if len(tokens) < 2 {
		return services.DocListResult{}, errors.NewInvalidQueryError("fewer than two phrase terms survive normalization")
	}
	terms := make([]string, len(tokens))
	for i, token := range tokens {
		terms[i] = token.Term
	}

	s.rlockAll()
	defer s.runlockAll()

	suggestions := s.suggestionsFor(terms)
	matched := s.phraseDocs(terms)

	result := newDocListResult(s.externalDocIDs(matched), startTime, suggestions)
	if query.IncludePositions && len(matched) > 0 {
		result.Positions = s.phraseStartPositions(matched, terms)
	}
	return result, nil
}

// phraseStartPositions maps each matching document to the positions where
// the phrase begins. Callers must hold the read locks.
func (s *Service) phraseStartPositions(matched []uint32, terms []string) map[string][]int {
	offset := len(terms) - 1
	positions := make(map[string][]int, len(matched))
	for _, docID := range matched {
		doc, found := s.documentStore.Docs[docID]
		if !found {
			continue
		}
		ends := s.phraseEndPositions(docID, terms)
		starts := make([]int, len(ends))
		for i, end := range ends {
			starts[i] = end - offset
		}
		positions[doc.DocID] = starts
	}
	return positions
}

// phraseDocs resolves the normalized phrase terms to internal doc IDs.
// Callers must hold the read locks.
func (s *Service) phraseDocs(terms []string) []uint32 {
	// Candidate documents contain every consecutive biword of the phrase.
	var candidates []uint32
	for i := 1; i < len(terms); i++ {
		list := s.biwordIndex.Pairs[index.Biword{First: terms[i-1], Second: terms[i]}]
		if len(list) == 0 {
			return nil
		}
		if i == 1 {
			candidates = list
		} else {
			candidates = intersectSorted(candidates, list)
		}
		if len(candidates) == 0 {
			return nil
		}
	}

	// For two terms the biword hit is already exact.
	if len(terms) == 2 {
		return candidates
	}

	matched := make([]uint32, 0, len(candidates))
	for _, docID := range candidates {
		if s.docContainsPhrase(docID, terms) {
			matched = append(matched, docID)
		}
	}
	return matched
}

// docContainsPhrase reports whether the phrase occurs in the document.
func (s *Service) docContainsPhrase(docID uint32, terms []string) bool {
	return len(s.phraseEndPositions(docID, terms)) > 0
}

// phraseEndPositions walks the positional postings of the phrase terms in
// lockstep. After step k, cur holds the positions at which term_k ends an
// occurrence of the first k+1 terms, so the final cur holds the positions
// where the whole phrase ends.
func (s *Service) phraseEndPositions(docID uint32, terms []string) []int {
	cur := positionsInDoc(s.positionalIndex.Index[terms[0]], docID)
	for i := 1; i < len(terms) && len(cur) > 0; i++ {
		next := positionsInDoc(s.positionalIndex.Index[terms[i]], docID)
		cur = adjacentPositions(cur, next)
	}
	return cur
}

// adjacentPositions returns the positions q in next such that q-1 is in
// cur, via a two-pointer merge over the sorted position lists.
func adjacentPositions(cur, next []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(cur) && j < len(next) {
		switch {
		case cur[i]+1 < next[j]:
			i++
		case cur[i]+1 > next[j]:
			j++
		default:
			out = append(out, next[j])
			i++
			j++
		}
	}
	return out
}
