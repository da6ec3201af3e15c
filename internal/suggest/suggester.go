package suggest

import "sort"

const (
	// MaxDistance is the widest edit distance considered for suggestions.
	MaxDistance = 2

	// MaxSuggestions caps how many alternatives accompany one unknown term.
	MaxSuggestions = 5
)

// ForTerm returns vocabulary terms within MaxDistance Damerau-Levenshtein
// edits of term, closest first with ties broken lexicographically, capped at
// MaxSuggestions. The term itself is never suggested. Suggestions are hints
// attached to responses; they never alter result sets.
func ForTerm(term string, vocabulary []string) []string {
	if term == "" || len(vocabulary) == 0 {
		return nil
	}

	termLen := len([]rune(term))

	type candidate struct {
		term     string
		distance int
	}
	candidates := make([]candidate, 0, 8)

	for _, vocabTerm := range vocabulary {
		if vocabTerm == term {
			continue
		}

		// Length-based early filtering: if length difference > MaxDistance, skip
		lengthDiff := len([]rune(vocabTerm)) - termLen
		if lengthDiff < 0 {
			lengthDiff = -lengthDiff
		}
		if lengthDiff > MaxDistance {
			continue
		}

		dist := damerauLevenshteinWithLimit(term, vocabTerm, MaxDistance)
		if dist > 0 && dist <= MaxDistance {
			candidates = append(candidates, candidate{term: vocabTerm, distance: dist})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	// Vocabulary arrives in map order; sorting makes suggestions deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].term < candidates[j].term
	})

	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}

	suggestions := make([]string, len(candidates))
	for i, c := range candidates {
		suggestions[i] = c.term
	}
	return suggestions
}
