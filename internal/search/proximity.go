package search

import (
	"strings"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// ProximitySearch returns the documents where the two terms occur within
// MaxDistance positions of each other; Ordered additionally requires TermA
// to precede TermB. Distances are measured over the dense post-normalization
// positions, so removed stop words do not add to the gap.
func (s *Service) ProximitySearch(query services.ProximityQuery) (services.DocListResult, error) {
	startTime := time.Now()

	if query.MaxDistance < 0 {
		return services.DocListResult{}, errors.NewInvalidQueryError("max_distance cannot be negative")
	}
	if strings.TrimSpace(query.TermA) == "" || strings.TrimSpace(query.TermB) == "" {
		return services.DocListResult{}, errors.NewInvalidQueryError("proximity search needs two terms")
	}

	s.rlockAll()
	defer s.runlockAll()

	termA, okA := s.normalizeTerm(query.TermA)
	termB, okB := s.normalizeTerm(query.TermB)

	var terms []string
	if okA {
		terms = append(terms, termA)
	}
	if okB {
		terms = append(terms, termB)
	}
	suggestions := s.suggestionsFor(terms)

	// A term dropped by normalization occurs in no document, and two
	// occurrences can never sit zero positions apart.
	if !okA || !okB || query.MaxDistance == 0 {
		return newDocListResult(nil, startTime, suggestions), nil
	}

	postingsA := s.positionalIndex.Index[termA]
	postingsB := s.positionalIndex.Index[termB]

	var matched []uint32
	i, j := 0, 0
	for i < len(postingsA) && j < len(postingsB) {
		switch {
		case postingsA[i].DocID < postingsB[j].DocID:
			i++
		case postingsA[i].DocID > postingsB[j].DocID:
			j++
		default:
			if positionsWithin(postingsA[i].Positions, postingsB[j].Positions, query.MaxDistance, query.Ordered) {
				matched = append(matched, postingsA[i].DocID)
			}
			i++
			j++
		}
	}

	return newDocListResult(s.externalDocIDs(matched), startTime, suggestions), nil
}

// positionsWithin reports whether some position pair (pa, pb) satisfies the
// distance constraint, walking both sorted lists once.
func positionsWithin(pa, pb []int, maxDistance int, ordered bool) bool {
	i, j := 0, 0

	if ordered {
		// Need pb - pa in [1, maxDistance].
		for i < len(pa) && j < len(pb) {
			diff := pb[j] - pa[i]
			switch {
			case diff < 1:
				j++
			case diff > maxDistance:
				i++
			default:
				return true
			}
		}
		return false
	}

	// Unordered: need 1 ≤ |pa - pb| ≤ maxDistance. Identical positions only
	// arise when both terms normalize to the same string; an occurrence
	// never pairs with itself.
	for i < len(pa) && j < len(pb) {
		diff := pa[i] - pb[j]
		if diff < 0 {
			diff = -diff
		}
		if diff >= 1 && diff <= maxDistance {
			return true
		}
		if pa[i] <= pb[j] {
			i++
		} else {
			j++
		}
	}
	return false
}
